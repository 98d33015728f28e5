package core

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/store"
)

type EventStore interface {
	InsertEvent(ctx context.Context, title, description string, orgID int64) (int64, error)
	GetEvent(ctx context.Context, orgID, eventID int64) (*store.Event, error)
	ListEvents(ctx context.Context, orgID int64) ([]store.Event, error)
	DeleteEvent(ctx context.Context, orgID, eventID int64) error
}

type EventsService struct {
	store EventStore
}

func NewEventsService(s EventStore) *EventsService {
	return &EventsService{store: s}
}

func (s *EventsService) Create(ctx context.Context, title, description string, orgID int64) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, errors.Wrap(errs.ErrValidation, "event title is required")
	}
	return s.store.InsertEvent(ctx, title, description, orgID)
}

func (s *EventsService) List(ctx context.Context, orgID int64) ([]store.Event, error) {
	return s.store.ListEvents(ctx, orgID)
}

// Get returns nil when the event does not exist in the organization.
func (s *EventsService) Get(ctx context.Context, orgID, eventID int64) (*store.Event, error) {
	return s.store.GetEvent(ctx, orgID, eventID)
}

// Delete removes the event record only; the event's photos, posts and
// contexts are left for their own delete operations.
func (s *EventsService) Delete(ctx context.Context, orgID, eventID int64) error {
	return s.store.DeleteEvent(ctx, orgID, eventID)
}
