package vector

import (
	"math"
	"math/rand"
	"testing"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	c := []float32{1, 0}

	if sim, err := CosineSimilarity(a, b); err != nil || sim != 0 {
		t.Fatalf("CosineSimilarity(a,b) = %v, %v; want 0, nil", sim, err)
	}
	if sim, err := CosineSimilarity(a, c); err != nil || sim != 1 {
		t.Fatalf("CosineSimilarity(a,c) = %v, %v; want 1, nil", sim, err)
	}
	if _, err := CosineSimilarity(a, []float32{1, 2, 3}); err == nil {
		t.Fatal("CosineSimilarity accepted mismatched dimensions")
	}
	if sim, err := CosineSimilarity(a, []float32{0, 0}); err != nil || sim != 0 {
		t.Fatalf("CosineSimilarity with zero operand = %v, %v; want 0, nil", sim, err)
	}
}

func TestNormalizeReconstructsOriginal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vec := make([]float32, 512)
	for i := range vec {
		vec[i] = rng.Float32()*2 - 1
	}

	unit, scale, err := Normalize(vec)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(unit) != 512 {
		t.Fatalf("unit vector has dimension %d, want 512", len(unit))
	}
	if mag := Magnitude(unit); math.Abs(float64(mag)-1) > 1e-5 {
		t.Fatalf("unit vector has magnitude %v, want 1", mag)
	}

	back := Scale(unit, scale)
	for i := range vec {
		if math.Abs(float64(back[i]-vec[i])) > 1e-5 {
			t.Fatalf("component %d: reconstructed %v, original %v", i, back[i], vec[i])
		}
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if _, _, err := Normalize(make([]float32, 8)); err != errs.ErrZeroMagnitude {
		t.Fatalf("Normalize(zero) = %v, want ErrZeroMagnitude", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3}
	encoded, err := EncodeJSON(vec)
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}
	decoded, err := DecodeJSON(encoded)
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	if len(decoded) != len(vec) {
		t.Fatalf("decoded dimension %d, want %d", len(decoded), len(vec))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Fatalf("component %d: got %v, want %v", i, decoded[i], vec[i])
		}
	}
	if empty, err := DecodeJSON(""); err != nil || empty != nil {
		t.Fatalf("DecodeJSON(\"\") = %v, %v; want nil, nil", empty, err)
	}
}
