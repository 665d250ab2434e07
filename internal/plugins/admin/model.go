// Package admin provides the site-wide administration endpoints: aggregate
// membership statistics and the member list. Admin routes require the admin
// flag (users.is_admin).
package admin

import "github.com/keyxmakerx/together/internal/plugins/auth"

// MemberListLimit caps GET /admin/members.
const MemberListLimit = 100

// Stats is the body of GET /admin/stats. The "this month" keys count all
// users and all events; there is no date window.
type Stats struct {
	ActiveMembers    int64 `json:"active_members"`
	SignupsThisMonth int64 `json:"signups_this_month"`
	EventsThisMonth  int64 `json:"events_this_month"`
}

// MemberPublic is the admin view of a member. Only these fields leave the
// server.
type MemberPublic struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// NewMemberPublic projects u onto the admin view.
func NewMemberPublic(u auth.User) MemberPublic {
	status := u.Status
	if status == "" {
		status = auth.StatusActive
	}
	return MemberPublic{Name: u.Name, Email: u.Email, Status: status}
}
