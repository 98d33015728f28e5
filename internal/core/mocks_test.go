package core

import (
	"context"

	"github.com/stretchr/testify/mock"

	"snapfeed.io/snapfeed-backend/internal/store"
)

type mockEmbedder struct {
	mock.Mock
}

func (m *mockEmbedder) EmbedImage(ctx context.Context, image []byte) ([]float32, float32, error) {
	args := m.Called(ctx, image)
	vec, _ := args.Get(0).([]float32)
	return vec, args.Get(1).(float32), args.Error(2)
}

func (m *mockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, float32, error) {
	args := m.Called(ctx, text)
	vec, _ := args.Get(0).([]float32)
	return vec, args.Get(1).(float32), args.Error(2)
}

func (m *mockEmbedder) EmbedContext(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	vec, _ := args.Get(0).([]float32)
	return vec, args.Error(1)
}

type mockCaptioner struct {
	mock.Mock
}

func (m *mockCaptioner) DescribeImage(ctx context.Context, embedding []float32, maxLength int) (string, error) {
	args := m.Called(ctx, embedding, maxLength)
	return args.String(0), args.Error(1)
}

func (m *mockCaptioner) GenerateText(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	args := m.Called(ctx, prompt, maxNewTokens)
	return args.String(0), args.Error(1)
}

type mockGenerationStore struct {
	mock.Mock
}

func (m *mockGenerationStore) GetPost(ctx context.Context, postID int64) (*store.Post, error) {
	args := m.Called(ctx, postID)
	post, _ := args.Get(0).(*store.Post)
	return post, args.Error(1)
}

func (m *mockGenerationStore) GetPhoto(ctx context.Context, eventID, photoID int64) (*store.Photo, error) {
	args := m.Called(ctx, eventID, photoID)
	photo, _ := args.Get(0).(*store.Photo)
	return photo, args.Error(1)
}

func (m *mockGenerationStore) SimilarContexts(ctx context.Context, eventID int64, query []float32, k int) ([]store.ScoredContext, error) {
	args := m.Called(ctx, eventID, query, k)
	scored, _ := args.Get(0).([]store.ScoredContext)
	return scored, args.Error(1)
}

type mockPhotoSimilarityStore struct {
	mock.Mock
}

func (m *mockPhotoSimilarityStore) SimilarPhotos(ctx context.Context, eventID int64, query []float32, k int) ([]store.ScoredPhoto, error) {
	args := m.Called(ctx, eventID, query, k)
	scored, _ := args.Get(0).([]store.ScoredPhoto)
	return scored, args.Error(1)
}
