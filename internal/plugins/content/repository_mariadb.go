package content

import (
	"context"
	"database/sql"
	"fmt"
)

// mariaContentRepository implements ContentRepository with hand-written
// MariaDB queries.
type mariaContentRepository struct {
	db *sql.DB
}

// NewMariaContentRepository creates a content repository backed by the
// given DB pool.
func NewMariaContentRepository(db *sql.DB) ContentRepository {
	return &mariaContentRepository{db: db}
}

func (r *mariaContentRepository) List(ctx context.Context, limit int) ([]Item, error) {
	return r.query(ctx,
		`SELECT id, title, type, description FROM content ORDER BY created_at, id LIMIT ?`, limit)
}

func (r *mariaContentRepository) ListByType(ctx context.Context, itemType string, limit int) ([]Item, error) {
	return r.query(ctx,
		`SELECT id, title, type, description FROM content WHERE type = ? ORDER BY created_at, id LIMIT ?`,
		itemType, limit)
}

func (r *mariaContentRepository) query(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying content: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		var desc sql.NullString
		if err := rows.Scan(&it.ID, &it.Title, &it.Type, &desc); err != nil {
			return nil, fmt.Errorf("scanning content: %w", err)
		}
		it.Description = desc.String
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content: %w", err)
	}
	return items, nil
}
