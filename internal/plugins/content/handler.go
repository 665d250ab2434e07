package content

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler handles the public catalogue listing.
type Handler struct {
	service ContentService
}

// NewHandler creates a new content handler.
func NewHandler(service ContentService) *Handler {
	return &Handler{service: service}
}

// List returns up to 20 catalogue items (GET /content). Public.
func (h *Handler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
