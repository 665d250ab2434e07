package events

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/together/internal/plugins/auth"
)

// Handler handles the member event listing.
type Handler struct {
	service EventService
}

// NewHandler creates a new events handler.
func NewHandler(service EventService) *Handler {
	return &Handler{service: service}
}

// MemberEvents returns upcoming, registered and past event titles
// (GET /member/events).
func (h *Handler) MemberEvents(c echo.Context, user *auth.User) error {
	resp, err := h.service.MemberEvents(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
