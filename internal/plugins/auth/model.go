// Package auth handles member accounts and bearer-token authentication for
// Together. It provides signup, login and the profile endpoint, and exports
// the RequireAuth/RequireAdmin middleware every other member-facing plugin
// is mounted behind.
//
// This is a CORE plugin -- always enabled, cannot be disabled.
package auth

import (
	"time"
)

// StatusActive is the status every new member starts with.
const StatusActive = "Active"

// User represents a registered member. This is the domain model used
// throughout the application; both store implementations map their records
// onto it.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"` // Never expose in JSON responses.
	IsAdmin          bool      `json:"is_admin"`
	Status           string    `json:"status"`
	RegisteredEvents []string  `json:"registered_events"`
	CreatedAt        time.Time `json:"created_at"`
}

// --- Request DTOs (bound from HTTP requests) ---

// SignupRequest is the JSON body of POST /signup. IsAdmin is only honoured
// when admin signup is enabled in the config.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin"`
}

// LoginRequest holds the login credentials. Clients send the OAuth2
// password-grant form (username, password); JSON bodies may use either
// "username" or "email".
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// --- Service Input DTOs (passed from handler to service) ---

// SignupInput is the validated input for creating a new user.
type SignupInput struct {
	Email    string
	Name     string
	Password string
	IsAdmin  bool
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// --- Responses ---

// MsgResponse is the acknowledgement body used by write endpoints.
type MsgResponse struct {
	Msg string `json:"msg"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MeResponse is the caller's own profile.
type MeResponse struct {
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	IsAdmin          bool     `json:"is_admin"`
	Status           string   `json:"status"`
	RegisteredEvents []string `json:"registered_events"`
}

// NewMeResponse builds the profile view of u. RegisteredEvents is never
// null in the JSON output.
func NewMeResponse(u *User) MeResponse {
	events := u.RegisteredEvents
	if events == nil {
		events = []string{}
	}
	status := u.Status
	if status == "" {
		status = StatusActive
	}
	return MeResponse{
		Email:            u.Email,
		Name:             u.Name,
		IsAdmin:          u.IsAdmin,
		Status:           status,
		RegisteredEvents: events,
	}
}
