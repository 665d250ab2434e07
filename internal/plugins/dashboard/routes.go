package dashboard

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/together/internal/plugins/auth"
)

// RegisterRoutes mounts the dashboard on the authenticated /member group.
func RegisterRoutes(member *echo.Group, h *Handler) {
	member.GET("/dashboard", auth.WithUser(h.Show))
}
