package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPhotoRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	embedding := []float32{0.6, 0.8, 0}
	id, err := s.InsertPhoto(ctx, 42, embedding, 3.5)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	photo, err := s.GetPhoto(ctx, 42, id)
	require.NoError(t, err)
	require.NotNil(t, photo)
	require.Equal(t, embedding, photo.Embedding)
	require.Equal(t, 3.5, photo.Norm)
	require.Equal(t, "1.png", photo.FileName())

	// Scoped by event: the wrong event sees nothing.
	other, err := s.GetPhoto(ctx, 43, id)
	require.NoError(t, err)
	require.Nil(t, other)
}

func TestPhotoDeleteIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.InsertPhoto(ctx, 42, []float32{1, 0}, 1)
	require.NoError(t, err)

	require.NoError(t, s.DeletePhoto(ctx, 42, id))
	photo, err := s.GetPhoto(ctx, 42, id)
	require.NoError(t, err)
	require.Nil(t, photo)

	// Deleting again is a no-op, not an error.
	require.NoError(t, s.DeletePhoto(ctx, 42, id))
}

func TestSimilarPhotosOrderingAndTruncation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Unit vectors at known angles to the query (1, 0).
	vectors := [][]float32{
		{0, 1},     // similarity 0
		{1, 0},     // similarity 1
		{0.6, 0.8}, // similarity 0.6
		{0.8, 0.6}, // similarity 0.8
	}
	for _, v := range vectors {
		_, err := s.InsertPhoto(ctx, 7, v, 1)
		require.NoError(t, err)
	}
	// A photo in another event must not appear.
	_, err := s.InsertPhoto(ctx, 8, []float32{1, 0}, 1)
	require.NoError(t, err)

	scored, err := s.SimilarPhotos(ctx, 7, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, scored, 3)
	require.InDelta(t, 1.0, scored[0].Similarity, 1e-6)
	require.InDelta(t, 0.8, scored[1].Similarity, 1e-6)
	require.InDelta(t, 0.6, scored[2].Similarity, 1e-6)

	all, err := s.SimilarPhotos(ctx, 7, []float32{1, 0}, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
}

func TestContextRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docID, err := s.InsertDocument(ctx, 5, "venue-notes", ".txt")
	require.NoError(t, err)

	_, err = s.InsertContext(ctx, &Context{
		EventID: 5, DocID: &docID, ContextType: ContextTypeDocument,
		Content: "The venue opens at nine.", Embedding: []float32{1, 0},
	})
	require.NoError(t, err)
	_, err = s.InsertContext(ctx, &Context{
		EventID: 5, ContextType: ContextTypeMain,
		Content: "Summer festival weekend.", Embedding: []float32{0, 1},
	})
	require.NoError(t, err)

	contexts, err := s.ListContexts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, contexts, 2)
	require.NotNil(t, contexts[0].DocID)
	require.Equal(t, docID, *contexts[0].DocID)
	require.Nil(t, contexts[1].DocID)

	scored, err := s.SimilarContexts(ctx, 5, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, scored, 1)
	require.Equal(t, "Summer festival weekend.", scored[0].Content)
}

func TestPostCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.InsertPost(ctx, &Post{EventID: 2, Caption: "first", ImageIDs: []int64{1, 2}, UserID: 9})
	require.NoError(t, err)

	post, err := s.GetPost(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, post.ImageIDs)

	caption := "updated"
	affected, err := s.UpdatePost(ctx, id, PostUpdate{Caption: &caption, ImageIDs: []int64{3}})
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	post, err = s.GetPost(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "updated", post.Caption)
	require.Equal(t, []int64{3}, post.ImageIDs)

	affected, err = s.UpdatePost(ctx, 999, PostUpdate{Caption: &caption})
	require.NoError(t, err)
	require.Zero(t, affected)

	require.NoError(t, s.DeletePost(ctx, id))
	post, err = s.GetPost(ctx, id)
	require.NoError(t, err)
	require.Nil(t, post)
}

func TestUsersAndRoles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	roles, err := s.RolesByNames(ctx, []string{"photographer", "content manager"})
	require.NoError(t, err)
	require.Len(t, roles, 2)

	userID, err := s.InsertUser(ctx, &User{
		FirstName: "Ana", LastName: "Petrova",
		Email: "ana@example.com", PasswordHash: "hash",
	})
	require.NoError(t, err)
	for _, r := range roles {
		require.NoError(t, s.AssignRole(ctx, userID, r.ID))
	}

	names, err := s.RoleNamesForUser(ctx, userID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"photographer", "content manager"}, names)

	user, err := s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, userID, user.ID)

	missing, err := s.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestFeedbackLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.InsertFeedback(ctx, &Feedback{EventID: 1, PostID: 2, Comment: "tone it down", Status: "open"})
	require.NoError(t, err)

	list, err := s.ListFeedback(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "tone it down", list[0].Comment)

	require.NoError(t, s.DeleteFeedback(ctx, 1, 2, id))
	list, err = s.ListFeedback(ctx, 1, 2)
	require.NoError(t, err)
	require.Empty(t, list)
}
