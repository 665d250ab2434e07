package events

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// mariaEventRepository implements EventRepository with hand-written
// MariaDB queries.
type mariaEventRepository struct {
	db *sql.DB
}

// NewMariaEventRepository creates an event repository backed by the given
// DB pool.
func NewMariaEventRepository(db *sql.DB) EventRepository {
	return &mariaEventRepository{db: db}
}

// ListByCategory returns up to limit events in the category, oldest first.
func (r *mariaEventRepository) ListByCategory(ctx context.Context, category string, limit int) ([]Event, error) {
	query := `SELECT id, title, category FROM events
	          WHERE category = ? ORDER BY created_at, id LIMIT ?`
	return r.query(ctx, query, category, limit)
}

// FindByIDs returns the events whose id is in ids.
func (r *mariaEventRepository) FindByIDs(ctx context.Context, ids []string, limit int) ([]Event, error) {
	if len(ids) == 0 {
		return []Event{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	query := `SELECT id, title, category FROM events
	          WHERE id IN (` + placeholders + `) ORDER BY created_at, id LIMIT ?`

	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, limit)

	return r.query(ctx, query, args...)
}

// Count counts every event.
func (r *mariaEventRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

func (r *mariaEventRepository) query(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	evs := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Category); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		evs = append(evs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return evs, nil
}
