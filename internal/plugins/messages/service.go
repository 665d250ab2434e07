package messages

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/keyxmakerx/together/internal/apperror"
	"github.com/keyxmakerx/together/internal/plugins/auth"
	"github.com/keyxmakerx/together/internal/sanitize"
)

// MessageService defines the business logic contract for messaging.
type MessageService interface {
	Send(ctx context.Context, from *auth.User, input SendInput) (*Message, error)
	Conversations(ctx context.Context, user *auth.User) ([]string, error)
	UnreadCount(ctx context.Context, email string) (int64, error)
}

type messageService struct {
	repo MessageRepository
	now  func() time.Time
}

// NewMessageService creates a new message service.
func NewMessageService(repo MessageRepository) MessageService {
	return &messageService{repo: repo, now: time.Now}
}

// Send stores a message from the caller to input.To. The text is stored
// as sent; it is rejected only when nothing visible remains once markup is
// removed. The recipient is not required to exist.
func (s *messageService) Send(ctx context.Context, from *auth.User, input SendInput) (*Message, error) {
	to := strings.TrimSpace(input.To)
	if addr, err := mail.ParseAddress(to); err != nil || addr.Address != to {
		return nil, apperror.NewValidation("to is not a valid address")
	}

	if sanitize.IsBlank(input.Text) {
		return nil, apperror.NewValidation("text is required")
	}
	if utf8.RuneCountInString(input.Text) > maxTextLen {
		return nil, apperror.NewValidation("text must be at most 5000 characters")
	}

	msg := &Message{
		From:      from.Email,
		To:        auth.NormalizeEmail(to),
		Text:      input.Text,
		Timestamp: s.now().UTC(),
		Read:      false,
	}

	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("sending message: %w", err))
	}

	slog.Info("message sent",
		slog.String("message_id", msg.ID),
		slog.String("from", msg.From),
		slog.String("to", msg.To),
	)

	return msg, nil
}

// Conversations lists the caller's conversation partners.
func (s *messageService) Conversations(ctx context.Context, user *auth.User) ([]string, error) {
	partners, err := s.repo.Partners(ctx, user.Email)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if partners == nil {
		partners = []string{}
	}
	return partners, nil
}

// UnreadCount counts unread messages addressed to email.
func (s *messageService) UnreadCount(ctx context.Context, email string) (int64, error) {
	n, err := s.repo.CountUnread(ctx, email)
	if err != nil {
		return 0, apperror.NewInternal(err)
	}
	return n, nil
}
