package core

import "context"

// Embedder is the embedding gateway. EmbedImage and EmbedText map into
// one joint 512-dimensional space (images and text comparable by
// distance) and return the unit vector together with the magnitude
// discarded during normalization. EmbedContext uses a separate, purely
// textual space of a different dimensionality and always returns a unit
// vector.
type Embedder interface {
	EmbedImage(ctx context.Context, image []byte) ([]float32, float32, error)
	EmbedText(ctx context.Context, text string) ([]float32, float32, error)
	EmbedContext(ctx context.Context, text string) ([]float32, error)
}

// Captioner is the captioning gateway. DescribeImage turns an
// original-scale image embedding into a short description; GenerateText
// returns the continuation a causal language model produces for a
// prompt. Upstream failures surface as errs.ErrGeneration, unretried.
type Captioner interface {
	DescribeImage(ctx context.Context, embedding []float32, maxLength int) (string, error)
	GenerateText(ctx context.Context, prompt string, maxNewTokens int) (string, error)
}
