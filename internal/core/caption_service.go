package core

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

const generationModelName = "gemini-1.5-flash-latest"

// CaptionService implements Captioner. Image descriptions come from the
// in-house caption decoder server, which runs the autoregressive decode
// (start token, up to max_length sampled steps, early stop on the end
// token) against the original-scale embedding. Free-text generation is
// delegated to Gemini.
type CaptionService struct {
	httpClient *http.Client
	captionURL string
	genClient  *genai.Client
}

func NewCaptionService(captionURL string, genClient *genai.Client) *CaptionService {
	return &CaptionService{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		captionURL: captionURL,
		genClient:  genClient,
	}
}

type describeRequest struct {
	Embedding []float32 `json:"embedding"`
	MaxLength int       `json:"max_length"`
}

type describeResponse struct {
	Caption string `json:"caption"`
}

func (s *CaptionService) DescribeImage(ctx context.Context, embedding []float32, maxLength int) (string, error) {
	body, err := json.Marshal(describeRequest{Embedding: embedding, MaxLength: maxLength})
	if err != nil {
		return "", errors.Wrapf(errs.ErrGeneration, "encode describe request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.captionURL+"/describe", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrapf(errs.ErrGeneration, "build describe request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrapf(errs.ErrGeneration, "describe request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.Wrapf(errs.ErrGeneration, "caption server returned %d: %s", resp.StatusCode, msg)
	}

	var describeResp describeResponse
	if err := json.NewDecoder(resp.Body).Decode(&describeResp); err != nil {
		return "", errors.Wrapf(errs.ErrGeneration, "decode describe response: %v", err)
	}
	return strings.TrimSpace(describeResp.Caption), nil
}

// GenerateText returns only the newly generated continuation for the
// prompt: an echoed prompt prefix is stripped and the result is trimmed
// to its first non-empty line.
func (s *CaptionService) GenerateText(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	model := s.genClient.GenerativeModel(generationModelName)

	maxTokens := int32(maxNewTokens)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.Wrapf(errs.ErrGeneration, "gemini generation request failed: %v", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.Wrap(errs.ErrGeneration, "gemini returned an empty response")
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			builder.WriteString(string(txt))
		} else {
			logrus.Warnf("gemini response part was not text: %T", part)
		}
	}
	if builder.Len() == 0 {
		return "", errors.Wrap(errs.ErrGeneration, "gemini returned no text parts")
	}

	return extractContinuation(prompt, builder.String()), nil
}

// extractContinuation strips an echoed prompt prefix and keeps the first
// non-empty line of what remains.
func extractContinuation(prompt, generated string) string {
	continuation := strings.TrimPrefix(generated, prompt)
	for _, line := range strings.Split(continuation, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
