package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/keyxmakerx/together/internal/apperror"
	"github.com/keyxmakerx/together/internal/token"
)

// Authentication failures. Each is terminal for the request; the Echo
// error handler renders Message as the response detail.
var (
	ErrMissingCredential  = apperror.New(http.StatusUnauthorized, "missing_credential", "Authorization token missing")
	ErrInvalidCredential  = apperror.New(http.StatusUnauthorized, "invalid_credential", "Token invalid or expired")
	ErrUnknownSubject     = apperror.New(http.StatusUnauthorized, "unknown_subject", "User not found")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	ErrDuplicateEmail     = apperror.New(http.StatusBadRequest, "duplicate_email", "Email already registered")
	ErrForbidden          = apperror.New(http.StatusForbidden, "forbidden", "Admins only")
)

// TokenService issues and verifies bearer tokens. Satisfied by
// *token.Service.
type TokenService interface {
	token.Issuer
	token.Verifier
}

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*User, error)
	Login(ctx context.Context, input LoginInput) (accessToken string, err error)

	// Authenticate resolves a raw bearer token to the stored user.
	Authenticate(ctx context.Context, bearer string) (*User, error)
}

// authService implements AuthService with argon2id hashing and stateless
// signed tokens.
type authService struct {
	repo             UserRepository
	tokens           TokenService
	allowAdminSignup bool
	now              func() time.Time
}

// NewAuthService creates a new auth service. When allowAdminSignup is false
// the IsAdmin flag of SignupInput is ignored.
func NewAuthService(repo UserRepository, tokens TokenService, allowAdminSignup bool) AuthService {
	return &authService{
		repo:             repo,
		tokens:           tokens,
		allowAdminSignup: allowAdminSignup,
		now:              time.Now,
	}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a new member account with status Active.
func (s *authService) Signup(ctx context.Context, input SignupInput) (*User, error) {
	email := NormalizeEmail(input.Email)

	// Check if email is already taken before doing expensive hashing.
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	user := &User{
		Email:            email,
		Name:             strings.TrimSpace(input.Name),
		PasswordHash:     hash,
		IsAdmin:          input.IsAdmin && s.allowAdminSignup,
		Status:           StatusActive,
		RegisteredEvents: []string{},
		CreatedAt:        s.now().UTC(),
	}

	// The unique email constraint catches a concurrent signup that slipped
	// past the existence check.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	if input.IsAdmin && !user.IsAdmin {
		slog.Warn("signup requested admin flag but admin signup is disabled",
			slog.String("email", user.Email),
		)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.Bool("is_admin", user.IsAdmin),
	)

	return user, nil
}

// Login checks the password and returns a signed access token whose
// subject is the user's email. An unknown email and a wrong password fail
// identically.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if apperror.IsNotFound(err) {
			// Burn the same argon2 work as a real check.
			verifyPassword(input.Password, dummyHash)
			return "", ErrInvalidCredentials
		}
		return "", apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("issuing token: %w", err))
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return accessToken, nil
}

// Authenticate validates a bearer token and loads its subject. The checks
// run in order: missing token, invalid token, unknown subject.
func (s *authService) Authenticate(ctx context.Context, bearer string) (*User, error) {
	if bearer == "" {
		return nil, ErrMissingCredential
	}

	subject, err := s.tokens.Verify(bearer)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := s.repo.FindByEmail(ctx, subject)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrUnknownSubject
		}
		return nil, apperror.NewInternal(fmt.Errorf("loading token subject: %w", err))
	}

	return user, nil
}
