package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/store"
)

type mockContextStore struct {
	mock.Mock
}

func (m *mockContextStore) InsertContext(ctx context.Context, c *store.Context) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockContextStore) InsertDocument(ctx context.Context, eventID int64, title, fileExt string) (int64, error) {
	args := m.Called(ctx, eventID, title, fileExt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockContextStore) ListContexts(ctx context.Context, eventID int64) ([]store.Context, error) {
	args := m.Called(ctx, eventID)
	contexts, _ := args.Get(0).([]store.Context)
	return contexts, args.Error(1)
}

func (m *mockContextStore) SimilarContexts(ctx context.Context, eventID int64, query []float32, k int) ([]store.ScoredContext, error) {
	args := m.Called(ctx, eventID, query, k)
	scored, _ := args.Get(0).([]store.ScoredContext)
	return scored, args.Error(1)
}

type mockDocumentFiles struct {
	mock.Mock
}

func (m *mockDocumentFiles) SaveDocument(eventID int64, name string, data []byte) (string, error) {
	args := m.Called(eventID, name, data)
	return args.String(0), args.Error(1)
}

func TestSplitChunksCountAndReassembly(t *testing.T) {
	const size, overlap = 512, 64
	stride := size - overlap

	for _, length := range []int{1, 100, stride, stride + 1, size, 1000, 3000} {
		text := strings.Repeat("x", length)
		// Make the text positional so reassembly is meaningful.
		runes := []rune(text)
		for i := range runes {
			runes[i] = rune('a' + i%26)
		}
		text = string(runes)

		chunks := SplitChunks(text, size, overlap)

		wantCount := (length + stride - 1) / stride
		require.Len(t, chunks, wantCount, "length %d", length)

		for _, c := range chunks {
			require.LessOrEqual(t, len([]rune(c)), size)
		}

		// Dropping each subsequent chunk's leading overlap reproduces
		// the original text.
		rebuilt := []rune(chunks[0])
		for _, c := range chunks[1:] {
			cr := []rune(c)
			drop := overlap
			if drop > len(cr) {
				drop = len(cr)
			}
			rebuilt = append(rebuilt, cr[drop:]...)
		}
		require.Equal(t, text, string(rebuilt), "length %d", length)
	}
}

func TestSplitChunksEmpty(t *testing.T) {
	require.Nil(t, SplitChunks("", 512, 64))
}

func TestNormalizeContextType(t *testing.T) {
	for input, want := range map[string]string{
		"document":     store.ContextTypeDocument,
		"main context": store.ContextTypeMain,
		"main_context": store.ContextTypeMain,
		"":             store.ContextTypeMain,
	} {
		got, err := NormalizeContextType(input)
		require.NoError(t, err, "input %q", input)
		require.Equal(t, want, got, "input %q", input)
	}

	_, err := NormalizeContextType("draft")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestAddTextStoresOneRowPerChunk(t *testing.T) {
	st := new(mockContextStore)
	embed := new(mockEmbedder)

	text := strings.Repeat("venue details ", 60) // long enough for several chunks
	chunks := SplitChunks(text, 128, 16)
	require.Greater(t, len(chunks), 1)

	embed.On("EmbedContext", mock.Anything, mock.AnythingOfType("string")).Return([]float32{0.1, 0.2}, nil)
	st.On("InsertContext", mock.Anything, mock.AnythingOfType("*store.Context")).Return(int64(1), nil)

	svc := NewContextService(st, new(mockDocumentFiles), embed, 128, 16)
	require.NoError(t, svc.AddText(context.Background(), 42, text, "main context", nil))

	st.AssertNumberOfCalls(t, "InsertContext", len(chunks))
	embed.AssertNumberOfCalls(t, "EmbedContext", len(chunks))
}

func TestAddTextRejectsEmpty(t *testing.T) {
	svc := NewContextService(new(mockContextStore), new(mockDocumentFiles), new(mockEmbedder), 512, 64)
	err := svc.AddText(context.Background(), 42, "   ", "main context", nil)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestAddDocumentsIngestsChunksSharingDocID(t *testing.T) {
	st := new(mockContextStore)
	files := new(mockDocumentFiles)
	embed := new(mockEmbedder)

	content := []byte("Doors open at nine. The headliner goes on at eleven.")
	files.On("SaveDocument", int64(42), "schedule.txt", content).Return("/tmp/schedule.txt", nil)
	st.On("InsertDocument", mock.Anything, int64(42), "schedule", ".txt").Return(int64(3), nil)
	embed.On("EmbedContext", mock.Anything, mock.AnythingOfType("string")).Return([]float32{1}, nil)
	st.On("InsertContext", mock.Anything, mock.MatchedBy(func(c *store.Context) bool {
		return c.DocID != nil && *c.DocID == 3 && c.ContextType == store.ContextTypeDocument
	})).Return(int64(1), nil)

	svc := NewContextService(st, files, embed, 512, 64)
	err := svc.AddDocuments(context.Background(), 42, []UploadedFile{{Name: "schedule.txt", Data: content}})
	require.NoError(t, err)
	st.AssertExpectations(t)
}
