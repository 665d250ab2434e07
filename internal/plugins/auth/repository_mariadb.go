package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/keyxmakerx/together/internal/apperror"
)

// mysqlDuplicateEntry is the MariaDB error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// mariaUserRepository implements UserRepository with hand-written MariaDB
// queries.
type mariaUserRepository struct {
	db *sql.DB
}

// NewMariaUserRepository creates a user repository backed by the given DB pool.
func NewMariaUserRepository(db *sql.DB) UserRepository {
	return &mariaUserRepository{db: db}
}

// Create inserts a new user row. A fresh UUID is assigned as the id.
func (r *mariaUserRepository) Create(ctx context.Context, user *User) error {
	id := uuid.NewString()

	query := `INSERT INTO users (id, email, name, password_hash, is_admin, status, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		id,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.IsAdmin,
		user.Status,
		user.CreatedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	user.ID = id
	return nil
}

// FindByEmail retrieves a user and the ids of the events they registered for.
func (r *mariaUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, email, name, password_hash, is_admin, status, created_at
	          FROM users WHERE email = ?`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.Status,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	user.RegisteredEvents, err = r.registeredEvents(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// registeredEvents lists the event ids in user_events for one user.
func (r *mariaUserRepository) registeredEvents(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT event_id FROM user_events WHERE user_id = ? ORDER BY event_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying registered events: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning registered event: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registered events: %w", err)
	}
	return ids, nil
}

// EmailExists returns true if a user with the given email already exists.
func (r *mariaUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return exists, nil
}

// CountActiveMembers counts non-admin users whose status is Active.
func (r *mariaUserRepository) CountActiveMembers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE is_admin = FALSE AND status = ?`, StatusActive).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting active members: %w", err)
	}
	return n, nil
}

// CountUsers counts every user, admins included.
func (r *mariaUserRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// ListMembers returns up to limit non-admin users, oldest first.
// Registered events are not loaded.
func (r *mariaUserRepository) ListMembers(ctx context.Context, limit int) ([]User, error) {
	query := `SELECT id, email, name, is_admin, status, created_at
	          FROM users WHERE is_admin = FALSE
	          ORDER BY created_at, id LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.IsAdmin, &u.Status, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return users, nil
}
