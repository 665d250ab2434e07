package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the auth routes. Signup and login are public; /me
// sits behind RequireAuth. The middleware is exported separately for other
// plugins to use on their route groups.
func RegisterRoutes(e *echo.Echo, h *Handler, service AuthService) {
	e.POST("/signup", h.Signup)
	e.POST("/login", h.Login)

	e.GET("/me", WithUser(h.Me), RequireAuth(service))
}
