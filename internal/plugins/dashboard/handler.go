package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/together/internal/plugins/auth"
)

// Handler serves the member dashboard.
type Handler struct {
	service DashboardService
}

// NewHandler creates a new dashboard handler.
func NewHandler(service DashboardService) *Handler {
	return &Handler{service: service}
}

// Show returns the caller's dashboard (GET /member/dashboard).
func (h *Handler) Show(c echo.Context, user *auth.User) error {
	d, err := h.service.Build(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
