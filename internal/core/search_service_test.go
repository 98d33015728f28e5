package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/store"
)

func scoredPhoto(id int64, similarity float64) store.ScoredPhoto {
	return store.ScoredPhoto{Photo: store.Photo{ID: id, EventID: 123}, Similarity: similarity}
}

func TestSearchFiltersStrictlyAboveThreshold(t *testing.T) {
	embed := new(mockEmbedder)
	similarity := new(mockPhotoSimilarityStore)

	query := []float32{0.1, 0.2, 0.3}
	embed.On("EmbedText", mock.Anything, "dog on stage").Return(query, float32(2.0), nil)
	similarity.On("SimilarPhotos", mock.Anything, int64(123), query, 0).Return([]store.ScoredPhoto{
		scoredPhoto(3, 0.8),
		scoredPhoto(1, 0.6),
		scoredPhoto(2, 0.4),
	}, nil)

	svc := NewSearchService(similarity, embed)
	ids, err := svc.Search(context.Background(), 123, "dog on stage", 0.5)
	require.NoError(t, err)

	// Only similarities strictly above 0.5 survive, still descending.
	require.Equal(t, []int64{3, 1}, ids)
}

func TestSearchNoMatches(t *testing.T) {
	embed := new(mockEmbedder)
	similarity := new(mockPhotoSimilarityStore)

	embed.On("EmbedText", mock.Anything, "unicorns").Return([]float32{1}, float32(1.0), nil)
	similarity.On("SimilarPhotos", mock.Anything, int64(123), mock.Anything, 0).Return([]store.ScoredPhoto{}, nil)

	svc := NewSearchService(similarity, embed)
	ids, err := svc.Search(context.Background(), 123, "unicorns", 0.5)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestSearchRejectsEmptyText(t *testing.T) {
	svc := NewSearchService(new(mockPhotoSimilarityStore), new(mockEmbedder))
	_, err := svc.Search(context.Background(), 123, "  ", 0.5)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestSearchThresholdIsExclusive(t *testing.T) {
	embed := new(mockEmbedder)
	similarity := new(mockPhotoSimilarityStore)

	embed.On("EmbedText", mock.Anything, "crowd").Return([]float32{1}, float32(1.0), nil)
	similarity.On("SimilarPhotos", mock.Anything, int64(9), mock.Anything, 0).Return([]store.ScoredPhoto{
		scoredPhoto(7, 0.5),
	}, nil)

	svc := NewSearchService(similarity, embed)
	ids, err := svc.Search(context.Background(), 9, "crowd", 0.5)
	require.NoError(t, err)
	require.Empty(t, ids, "similarity equal to the threshold must not match")
}
