package messages

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// mariaMessageRepository implements MessageRepository with hand-written
// MariaDB queries.
type mariaMessageRepository struct {
	db *sql.DB
}

// NewMariaMessageRepository creates a message repository backed by the
// given DB pool.
func NewMariaMessageRepository(db *sql.DB) MessageRepository {
	return &mariaMessageRepository{db: db}
}

// Insert stores a new message row under a fresh UUID.
func (r *mariaMessageRepository) Insert(ctx context.Context, msg *Message) error {
	id := uuid.NewString()

	query := `INSERT INTO messages (id, from_email, to_email, text, sent_at, is_read)
	          VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, id, msg.From, msg.To, msg.Text, msg.Timestamp, msg.Read); err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	msg.ID = id
	return nil
}

// Partners returns the distinct conversation partners of email. UNION
// removes duplicates.
func (r *mariaMessageRepository) Partners(ctx context.Context, email string) ([]string, error) {
	query := `SELECT to_email FROM messages WHERE from_email = ?
	          UNION
	          SELECT from_email FROM messages WHERE to_email = ?
	          ORDER BY 1`

	rows, err := r.db.QueryContext(ctx, query, email, email)
	if err != nil {
		return nil, fmt.Errorf("listing conversation partners: %w", err)
	}
	defer rows.Close()

	partners := []string{}
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("scanning partner: %w", err)
		}
		partners = append(partners, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating partners: %w", err)
	}
	return partners, nil
}

// CountUnread counts unread messages addressed to email.
func (r *mariaMessageRepository) CountUnread(ctx context.Context, email string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE to_email = ? AND is_read = FALSE`, email).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting unread messages: %w", err)
	}
	return n, nil
}
