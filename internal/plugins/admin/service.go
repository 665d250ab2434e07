package admin

import (
	"context"
	"fmt"

	"github.com/keyxmakerx/together/internal/apperror"
	"github.com/keyxmakerx/together/internal/plugins/auth"
)

// EventCounter provides the total number of events for the stats card.
// Satisfied by events.EventService.
type EventCounter interface {
	Count(ctx context.Context) (int64, error)
}

// AdminService defines the business logic contract for the admin endpoints.
type AdminService interface {
	Stats(ctx context.Context) (*Stats, error)
	Members(ctx context.Context) ([]MemberPublic, error)
}

// adminService reads users straight from the auth repository; there is no
// admin-owned data.
type adminService struct {
	users  auth.UserRepository
	events EventCounter
}

// NewAdminService creates a new admin service.
func NewAdminService(users auth.UserRepository, events EventCounter) AdminService {
	return &adminService{users: users, events: events}
}

// Stats counts active members, all users and all events.
func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	active, err := s.users.CountActiveMembers(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("counting active members: %w", err))
	}

	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("counting users: %w", err))
	}

	eventCount, err := s.events.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		ActiveMembers:    active,
		SignupsThisMonth: total,
		EventsThisMonth:  eventCount,
	}, nil
}

// Members lists up to MemberListLimit non-admin users.
func (s *adminService) Members(ctx context.Context) ([]MemberPublic, error) {
	users, err := s.users.ListMembers(ctx, MemberListLimit)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing members: %w", err))
	}

	members := make([]MemberPublic, 0, len(users))
	for _, u := range users {
		members = append(members, NewMemberPublic(u))
	}
	return members, nil
}
