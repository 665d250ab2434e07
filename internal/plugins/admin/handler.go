package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler handles admin HTTP requests. Depends on the admin service only.
type Handler struct {
	service AdminService
}

// NewHandler creates a new admin handler.
func NewHandler(service AdminService) *Handler {
	return &Handler{service: service}
}

// Stats returns aggregate membership counts (GET /admin/stats).
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Members lists non-admin members (GET /admin/members).
func (h *Handler) Members(c echo.Context) error {
	members, err := h.service.Members(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}
