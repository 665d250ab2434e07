// Package dashboard builds the member dashboard: upcoming and recommended
// events, unread message count and available courses. It owns no data and
// reads through the other plugins' services.
package dashboard

import (
	"context"

	"github.com/keyxmakerx/together/internal/plugins/auth"
	"github.com/keyxmakerx/together/internal/plugins/events"
)

// EventTitles lists event titles by category. Satisfied by
// events.EventService.
type EventTitles interface {
	Titles(ctx context.Context, category string) ([]string, error)
}

// UnreadCounter counts unread messages. Satisfied by
// messages.MessageService.
type UnreadCounter interface {
	UnreadCount(ctx context.Context, email string) (int64, error)
}

// CourseLister lists course titles. Satisfied by content.ContentService.
type CourseLister interface {
	CourseTitles(ctx context.Context) ([]string, error)
}

// Dashboard is the body of GET /member/dashboard.
type Dashboard struct {
	UpcomingEvents    []string `json:"upcoming_events"`
	RecommendedEvents []string `json:"recommended_events"`
	Messages          int64    `json:"messages"`
	Courses           []string `json:"courses"`
}

// DashboardService defines the business logic contract for the dashboard.
type DashboardService interface {
	Build(ctx context.Context, user *auth.User) (*Dashboard, error)
}

type dashboardService struct {
	events   EventTitles
	messages UnreadCounter
	courses  CourseLister
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(ev EventTitles, msgs UnreadCounter, courses CourseLister) DashboardService {
	return &dashboardService{events: ev, messages: msgs, courses: courses}
}

// Build assembles the dashboard for user. The first failing read aborts
// the request; its error is already an AppError.
func (s *dashboardService) Build(ctx context.Context, user *auth.User) (*Dashboard, error) {
	courses, err := s.courses.CourseTitles(ctx)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.events.Titles(ctx, events.CategoryUpcoming)
	if err != nil {
		return nil, err
	}

	recommended, err := s.events.Titles(ctx, events.CategoryRecommended)
	if err != nil {
		return nil, err
	}

	unread, err := s.messages.UnreadCount(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		UpcomingEvents:    upcoming,
		RecommendedEvents: recommended,
		Messages:          unread,
		Courses:           courses,
	}, nil
}
