package events

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/together/internal/plugins/auth"
)

// RegisterRoutes mounts the event routes on the authenticated /member group.
func RegisterRoutes(member *echo.Group, h *Handler) {
	member.GET("/events", auth.WithUser(h.MemberEvents))
}
