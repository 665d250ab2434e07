package messages

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/together/internal/plugins/auth"
)

// RegisterRoutes mounts the messaging routes on the authenticated /member
// group.
func RegisterRoutes(member *echo.Group, h *Handler) {
	member.GET("/messages", auth.WithUser(h.List))
	member.POST("/messages", auth.WithUser(h.Send))
}
