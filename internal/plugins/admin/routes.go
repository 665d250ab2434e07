package admin

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/together/internal/plugins/auth"
)

// RegisterRoutes sets up all admin routes on the given Echo instance.
// Creates a /admin group with auth + admin middleware. Returns the group so
// other plugins can register additional admin routes.
func RegisterRoutes(e *echo.Echo, h *Handler, authService auth.AuthService) *echo.Group {
	admin := e.Group("/admin",
		auth.RequireAuth(authService),
		auth.RequireAdmin(),
	)

	admin.GET("/stats", h.Stats)
	admin.GET("/members", h.Members)

	return admin
}
