package messages

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/together/internal/apperror"
	"github.com/keyxmakerx/together/internal/plugins/auth"
)

// Handler handles member messaging requests.
type Handler struct {
	service MessageService
}

// NewHandler creates a new messages handler.
func NewHandler(service MessageService) *Handler {
	return &Handler{service: service}
}

// List returns the caller's conversation partners (GET /member/messages).
func (h *Handler) List(c echo.Context, user *auth.User) error {
	partners, err := h.service.Conversations(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ConversationsResponse{Conversations: partners})
}

// Send stores a message from the caller (POST /member/messages).
func (h *Handler) Send(c echo.Context, user *auth.User) error {
	var req SendRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("invalid request body")
	}

	if _, err := h.service.Send(c.Request().Context(), user, SendInput{To: req.To, Text: req.Text}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, auth.MsgResponse{Msg: "Message sent"})
}
