package core

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/store"
)

type PhotoSimilarityStore interface {
	SimilarPhotos(ctx context.Context, eventID int64, query []float32, k int) ([]store.ScoredPhoto, error)
}

// SearchService finds an event's photos by free-text query through the
// joint image/text embedding space.
type SearchService struct {
	store PhotoSimilarityStore
	embed Embedder
}

func NewSearchService(s PhotoSimilarityStore, embed Embedder) *SearchService {
	return &SearchService{store: s, embed: embed}
}

// Search returns the ids of photos whose similarity to the query text
// strictly exceeds threshold, ordered by descending similarity.
func (s *SearchService) Search(ctx context.Context, eventID int64, text string, threshold float64) ([]int64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Wrap(errs.ErrValidation, "search text is required")
	}

	embedding, _, err := s.embed.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	scored, err := s.store.SimilarPhotos(ctx, eventID, embedding, 0)
	if err != nil {
		return nil, err
	}

	ids := []int64{}
	for _, p := range scored {
		if p.Similarity > threshold {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}
