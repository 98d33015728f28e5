package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/store"
	"snapfeed.io/snapfeed-backend/internal/vector"
)

const (
	// DefaultTone steers the register of a generated caption.
	DefaultTone = "friendly"

	defaultMaxNewTokens = 50
	relevantChunks      = 3
	describeMaxLength   = 10
)

const captionPromptTemplate = `You are a social media assistant writing a caption for an event post.

Event context:
%s

Image descriptions: %s

Write a single %s caption for a social media post about: %s
Caption:`

type GenerationStore interface {
	GetPost(ctx context.Context, postID int64) (*store.Post, error)
	GetPhoto(ctx context.Context, eventID, photoID int64) (*store.Photo, error)
	SimilarContexts(ctx context.Context, eventID int64, query []float32, k int) ([]store.ScoredContext, error)
}

// GenerationService composes a social caption for a post: per-photo
// descriptions from the caption model, the event context chunks most
// similar to the user's prompt, and a fixed template rendered into the
// text-generation model.
type GenerationService struct {
	store     GenerationStore
	embed     Embedder
	captioner Captioner
}

func NewGenerationService(s GenerationStore, embed Embedder, captioner Captioner) *GenerationService {
	return &GenerationService{store: s, embed: embed, captioner: captioner}
}

// CaptionResult carries the generated caption along with the
// intermediate artifacts for traceability.
type CaptionResult struct {
	Caption      string   `json:"caption"`
	ContextUsed  string   `json:"context_used"`
	Descriptions []string `json:"image_descriptions"`
	Prompt       string   `json:"prompt"`
}

// GenerateCaption produces a caption for the post. A post with no
// associated photos renders the template with an empty descriptions
// section; that is allowed. Any gateway failure aborts the whole
// composition — no partial caption is ever returned.
func (s *GenerationService) GenerateCaption(ctx context.Context, postID int64, userPrompt, tone string, maxNewTokens int) (*CaptionResult, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return nil, errors.Wrap(errs.ErrValidation, "user prompt is required")
	}
	if tone == "" {
		tone = DefaultTone
	}
	if maxNewTokens <= 0 {
		maxNewTokens = defaultMaxNewTokens
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, composeErr(err)
	}
	if post == nil {
		return nil, errs.ErrNotFound
	}

	descriptions, err := s.describePhotos(ctx, post)
	if err != nil {
		return nil, composeErr(err)
	}

	contextUsed, err := s.retrieveContext(ctx, post.EventID, userPrompt)
	if err != nil {
		return nil, composeErr(err)
	}

	prompt := fmt.Sprintf(captionPromptTemplate,
		contextUsed, strings.Join(descriptions, ", "), tone, userPrompt)

	caption, err := s.captioner.GenerateText(ctx, prompt, maxNewTokens)
	if err != nil {
		return nil, composeErr(err)
	}

	logrus.Debugf("generated caption for post %d from %d descriptions", postID, len(descriptions))
	return &CaptionResult{
		Caption:      caption,
		ContextUsed:  contextUsed,
		Descriptions: descriptions,
		Prompt:       prompt,
	}, nil
}

// describePhotos reconstructs each photo's original-scale embedding
// (unit vector times stored norm) and asks the caption model for a
// description. Photo ids that no longer resolve are skipped.
func (s *GenerationService) describePhotos(ctx context.Context, post *store.Post) ([]string, error) {
	descriptions := []string{}
	for _, photoID := range post.ImageIDs {
		photo, err := s.store.GetPhoto(ctx, post.EventID, photoID)
		if err != nil {
			return nil, err
		}
		if photo == nil {
			logrus.Warnf("post %d references missing photo %d, skipping", post.ID, photoID)
			continue
		}

		original := vector.Scale(photo.Embedding, float32(photo.Norm))
		description, err := s.captioner.DescribeImage(ctx, original, describeMaxLength)
		if err != nil {
			return nil, err
		}
		descriptions = append(descriptions, description)
	}
	return descriptions, nil
}

// retrieveContext embeds the user prompt in the textual space, takes the
// top chunks by similarity, drops exact duplicates and joins the rest
// with blank lines.
func (s *GenerationService) retrieveContext(ctx context.Context, eventID int64, userPrompt string) (string, error) {
	embedding, err := s.embed.EmbedContext(ctx, userPrompt)
	if err != nil {
		return "", err
	}

	scored, err := s.store.SimilarContexts(ctx, eventID, embedding, relevantChunks)
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool)
	var parts []string
	for _, chunk := range scored {
		if seen[chunk.Content] {
			continue
		}
		seen[chunk.Content] = true
		parts = append(parts, chunk.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

func composeErr(err error) error {
	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrValidation) {
		return err
	}
	return errors.WithMessage(errs.ErrGeneration, "caption generation failed: "+err.Error())
}
