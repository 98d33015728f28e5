package core

import (
	"context"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/store"
)

type PostStore interface {
	InsertPost(ctx context.Context, p *store.Post) (int64, error)
	GetPost(ctx context.Context, postID int64) (*store.Post, error)
	ListPostsByEvent(ctx context.Context, eventID int64) ([]store.Post, error)
	UpdatePost(ctx context.Context, postID int64, upd store.PostUpdate) (int64, error)
	DeletePost(ctx context.Context, postID int64) error
}

type PostsService struct {
	store PostStore
}

func NewPostsService(s PostStore) *PostsService {
	return &PostsService{store: s}
}

func (s *PostsService) Create(ctx context.Context, eventID int64, caption string, imageIDs []int64, userID int64) (int64, error) {
	if eventID == 0 {
		return 0, errors.Wrap(errs.ErrValidation, "event_id is required")
	}
	if userID == 0 {
		return 0, errors.Wrap(errs.ErrValidation, "user_id is required")
	}
	return s.store.InsertPost(ctx, &store.Post{
		EventID:  eventID,
		Caption:  caption,
		ImageIDs: imageIDs,
		UserID:   userID,
	})
}

// Get returns nil when the post does not exist.
func (s *PostsService) Get(ctx context.Context, postID int64) (*store.Post, error) {
	return s.store.GetPost(ctx, postID)
}

func (s *PostsService) ListByEvent(ctx context.Context, eventID int64) ([]store.Post, error) {
	return s.store.ListPostsByEvent(ctx, eventID)
}

// Update applies the provided fields and reports ErrNotFound when the
// post does not exist.
func (s *PostsService) Update(ctx context.Context, postID int64, upd store.PostUpdate) error {
	if upd.EventID == nil && upd.Caption == nil && upd.ImageIDs == nil {
		return errors.Wrap(errs.ErrValidation, "no fields to update")
	}
	affected, err := s.store.UpdatePost(ctx, postID, upd)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a post without touching its referenced photos.
func (s *PostsService) Delete(ctx context.Context, postID int64) error {
	return s.store.DeletePost(ctx, postID)
}
