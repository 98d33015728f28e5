package core

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/vector"
)

// JointEmbeddingDim is the dimensionality of the shared image/text
// embedding space served by the CLIP model server.
const JointEmbeddingDim = 512

const contextEmbeddingModelName = "text-embedding-004"

const (
	inputTypeImage = "image"
	inputTypeText  = "text"
)

// EmbedService implements Embedder. Joint-space embeddings come from the
// in-house CLIP server over HTTP; context embeddings come from the
// Gemini text embedding model.
type EmbedService struct {
	httpClient *http.Client
	clipURL    string
	genClient  *genai.Client
}

func NewEmbedService(clipURL string, genClient *genai.Client) *EmbedService {
	return &EmbedService{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		clipURL:    clipURL,
		genClient:  genClient,
	}
}

type clipRequest struct {
	InputType string `json:"input_type"`
	Image     string `json:"image,omitempty"` // base64-encoded bytes
	Text      string `json:"text,omitempty"`
}

type clipResponse struct {
	Embedding []float32 `json:"embedding"`
}

// EmbedImage embeds raw image bytes into the joint space, returning the
// unit vector and the discarded magnitude.
func (s *EmbedService) EmbedImage(ctx context.Context, image []byte) ([]float32, float32, error) {
	return s.embed(ctx, clipRequest{
		InputType: inputTypeImage,
		Image:     base64.StdEncoding.EncodeToString(image),
	})
}

// EmbedText embeds a text string into the joint space, returning the
// unit vector and the discarded magnitude.
func (s *EmbedService) EmbedText(ctx context.Context, text string) ([]float32, float32, error) {
	return s.embed(ctx, clipRequest{InputType: inputTypeText, Text: text})
}

func (s *EmbedService) embed(ctx context.Context, req clipRequest) ([]float32, float32, error) {
	if req.InputType != inputTypeImage && req.InputType != inputTypeText {
		return nil, 0, errors.Wrapf(errs.ErrInvalidInputType, "expected 'image' or 'text', got %q", req.InputType)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, 0, errors.Wrapf(errs.ErrGeneration, "encode embedding request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.clipURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, 0, errors.Wrapf(errs.ErrGeneration, "build embedding request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, errors.Wrapf(errs.ErrGeneration, "embedding request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, errors.Wrapf(errs.ErrGeneration, "embedding server returned %d: %s", resp.StatusCode, msg)
	}

	var clipResp clipResponse
	if err := json.NewDecoder(resp.Body).Decode(&clipResp); err != nil {
		return nil, 0, errors.Wrapf(errs.ErrGeneration, "decode embedding response: %v", err)
	}
	if len(clipResp.Embedding) != JointEmbeddingDim {
		return nil, 0, errors.Wrapf(errs.ErrGeneration,
			"embedding server returned dimension %d, expected %d", len(clipResp.Embedding), JointEmbeddingDim)
	}

	unit, scale, err := vector.Normalize(clipResp.Embedding)
	if err != nil {
		return nil, 0, err
	}
	return unit, scale, nil
}

// EmbedContext embeds text with the Gemini text embedding model and
// unit-normalizes the result; the scale factor is discarded. An
// all-zero embedding fails with errs.ErrZeroMagnitude.
func (s *EmbedService) EmbedContext(ctx context.Context, text string) ([]float32, error) {
	em := s.genClient.EmbeddingModel(contextEmbeddingModelName)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, errors.Wrapf(errs.ErrGeneration, "gemini embedding request failed: %v", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.Wrap(errs.ErrGeneration, "no embedding data received from gemini")
	}

	unit, _, err := vector.Normalize(res.Embedding.Values)
	if err != nil {
		return nil, err
	}
	return unit, nil
}
