package core

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/store"
)

type FeedbackStore interface {
	InsertFeedback(ctx context.Context, f *store.Feedback) (int64, error)
	ListFeedback(ctx context.Context, eventID, postID int64) ([]store.Feedback, error)
	DeleteFeedback(ctx context.Context, eventID, postID, feedbackID int64) error
}

type FeedbackService struct {
	store FeedbackStore
}

func NewFeedbackService(s FeedbackStore) *FeedbackService {
	return &FeedbackService{store: s}
}

func (s *FeedbackService) Add(ctx context.Context, eventID, postID int64, comment, status string) (int64, error) {
	if strings.TrimSpace(comment) == "" {
		return 0, errors.Wrap(errs.ErrValidation, "feedback comment is required")
	}
	if strings.TrimSpace(status) == "" {
		return 0, errors.Wrap(errs.ErrValidation, "feedback status is required")
	}
	return s.store.InsertFeedback(ctx, &store.Feedback{
		EventID: eventID,
		PostID:  postID,
		Comment: comment,
		Status:  status,
	})
}

func (s *FeedbackService) List(ctx context.Context, eventID, postID int64) ([]store.Feedback, error) {
	return s.store.ListFeedback(ctx, eventID, postID)
}

func (s *FeedbackService) Delete(ctx context.Context, eventID, postID, feedbackID int64) error {
	return s.store.DeleteFeedback(ctx, eventID, postID, feedbackID)
}
