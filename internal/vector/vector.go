// Package vector holds the small amount of float32 vector math the
// backend needs: cosine similarity for retrieval, unit-normalization
// with scale-factor bookkeeping for stored embeddings, and the JSON
// encoding used for vector columns in the store.
package vector

import (
	"encoding/json"
	"fmt"
	"math"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

func dotProduct(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector: dimension mismatch: %d vs %d", len(a), len(b))
	}
	var product float32
	for i := range a {
		product += a[i] * b[i]
	}
	return product, nil
}

// Magnitude returns the L2 norm of a vector.
func Magnitude(vec []float32) float32 {
	var sumOfSquares float64
	for _, v := range vec {
		sumOfSquares += float64(v) * float64(v)
	}
	return float32(math.Sqrt(sumOfSquares))
}

// CosineSimilarity returns the cosine similarity between two vectors of
// the same dimension. A zero-magnitude operand yields similarity 0.
func CosineSimilarity(a, b []float32) (float32, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("vector: cosine similarity on empty vectors")
	}
	dot, err := dotProduct(a, b)
	if err != nil {
		return 0, err
	}

	magA := Magnitude(a)
	magB := Magnitude(b)
	if magA == 0 || magB == 0 {
		return 0, nil
	}
	return dot / (magA * magB), nil
}

// Normalize returns a unit-length copy of vec along with the discarded
// magnitude, so callers can reconstruct the original-scale vector as
// Scale(unit, scale). An all-zero input fails with errs.ErrZeroMagnitude.
func Normalize(vec []float32) ([]float32, float32, error) {
	mag := Magnitude(vec)
	if mag == 0 {
		return nil, 0, errs.ErrZeroMagnitude
	}
	unit := make([]float32, len(vec))
	for i, v := range vec {
		unit[i] = v / mag
	}
	return unit, mag, nil
}

// Scale multiplies every component of vec by factor.
func Scale(vec []float32, factor float32) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = v * factor
	}
	return out
}

// EncodeJSON renders a vector as the JSON array stored in vector columns.
func EncodeJSON(vec []float32) (string, error) {
	b, err := json.Marshal(vec)
	if err != nil {
		return "", fmt.Errorf("vector: encode: %w", err)
	}
	return string(b), nil
}

// DecodeJSON parses a vector column value produced by EncodeJSON.
func DecodeJSON(s string) ([]float32, error) {
	if s == "" {
		return nil, nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(s), &vec); err != nil {
		return nil, fmt.Errorf("vector: decode: %w", err)
	}
	return vec, nil
}
