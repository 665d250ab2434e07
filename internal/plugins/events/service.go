package events

import (
	"context"
	"fmt"

	"github.com/keyxmakerx/together/internal/apperror"
	"github.com/keyxmakerx/together/internal/plugins/auth"
)

// EventService defines the business logic contract for event listings.
type EventService interface {
	// MemberEvents builds the upcoming/registered/past listing for user.
	MemberEvents(ctx context.Context, user *auth.User) (*MemberEventsResponse, error)

	// Titles returns up to ListLimit titles of events in category.
	Titles(ctx context.Context, category string) ([]string, error)

	// Count returns the total number of events.
	Count(ctx context.Context) (int64, error)
}

type eventService struct {
	repo EventRepository
}

// NewEventService creates a new event service.
func NewEventService(repo EventRepository) EventService {
	return &eventService{repo: repo}
}

// MemberEvents runs the three listings one after another.
func (s *eventService) MemberEvents(ctx context.Context, user *auth.User) (*MemberEventsResponse, error) {
	upcoming, err := s.Titles(ctx, CategoryUpcoming)
	if err != nil {
		return nil, err
	}

	registered, err := s.repo.FindByIDs(ctx, user.RegisteredEvents, ListLimit)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("loading registered events: %w", err))
	}

	past, err := s.Titles(ctx, CategoryPast)
	if err != nil {
		return nil, err
	}

	return &MemberEventsResponse{
		Upcoming:   upcoming,
		Registered: Titles(registered),
		Past:       past,
	}, nil
}

// Titles lists event titles in one category.
func (s *eventService) Titles(ctx context.Context, category string) ([]string, error) {
	evs, err := s.repo.ListByCategory(ctx, category, ListLimit)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing %s events: %w", category, err))
	}
	return Titles(evs), nil
}

// Count returns the total number of events.
func (s *eventService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperror.NewInternal(err)
	}
	return n, nil
}
