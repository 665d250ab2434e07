package auth

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/together/internal/apperror"
)

// Field length caps applied at signup.
const (
	maxEmailLen    = 255
	maxNameLen     = 100
	maxPasswordLen = 128
)

// Handler handles HTTP requests for signup, login and the caller's profile.
// Handlers are thin: they bind the request, call the service, and write the
// response. No business logic lives here.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// Signup creates a member account (POST /signup).
func (h *Handler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("invalid request body")
	}

	if msg := validateSignupRequest(&req); msg != "" {
		return apperror.NewValidation(msg)
	}

	_, err := h.service.Signup(c.Request().Context(), SignupInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MsgResponse{Msg: "User created successfully"})
}

// Login exchanges credentials for a bearer token (POST /login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("invalid request body")
	}

	email := req.Username
	if email == "" {
		email = req.Email
	}
	if strings.TrimSpace(email) == "" || req.Password == "" {
		return apperror.NewValidation("username and password are required")
	}

	accessToken, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// Me returns the authenticated caller's profile (GET /me).
func (h *Handler) Me(c echo.Context, user *User) error {
	return c.JSON(http.StatusOK, NewMeResponse(user))
}

// validateSignupRequest performs basic server-side validation on the signup
// body. Returns an empty string when the request is acceptable.
func validateSignupRequest(req *SignupRequest) string {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return "email is required"
	}
	if len(email) > maxEmailLen {
		return "email must be at most 255 characters"
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "email is not a valid address"
	}

	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if len(req.Name) > maxNameLen {
		return "name must be at most 100 characters"
	}

	if req.Password == "" {
		return "password is required"
	}
	if len(req.Password) > maxPasswordLen {
		return "password must be at most 128 characters"
	}

	return ""
}
