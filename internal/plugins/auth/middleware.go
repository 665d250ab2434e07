package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/together/internal/apperror"
)

// contextKeyUser is the Echo context key holding the authenticated *User.
// Other plugins read it through GetUser or WithUser.
const contextKeyUser = "auth_user"

// RequireAuth returns middleware that authenticates the bearer token in the
// Authorization header and injects the stored user into the request
// context. Failures are returned to the error handler unchanged.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := service.Authenticate(c.Request().Context(), bearerToken(c))
			if err != nil {
				return err
			}

			c.Set(contextKeyUser, user)
			return next(c)
		}
	}
}

// RequireAdmin returns middleware that rejects non-admin users with 403.
// Must be applied after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil {
				return apperror.NewMissingContext()
			}
			if !user.IsAdmin {
				return ErrForbidden
			}
			return next(c)
		}
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively; anything else yields "".
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

// --- Exported getters for other plugins ---

// GetUser retrieves the authenticated user from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetUser(c echo.Context) *User {
	user, ok := c.Get(contextKeyUser).(*User)
	if !ok {
		return nil
	}
	return user
}

// UserHandlerFunc is a handler that receives the authenticated user as an
// explicit argument.
type UserHandlerFunc func(c echo.Context, user *User) error

// WithUser adapts a UserHandlerFunc to an echo.HandlerFunc. Routes using it
// must sit behind RequireAuth; otherwise a 500 is returned.
func WithUser(h UserHandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := GetUser(c)
		if user == nil {
			return apperror.NewMissingContext()
		}
		return h(c, user)
	}
}
