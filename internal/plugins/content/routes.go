package content

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the public catalogue route.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/content", h.List)
}
