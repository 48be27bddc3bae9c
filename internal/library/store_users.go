package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"flickvault/internal/services"
)

// CreateUser inserts a new account. The password must already be
// hashed; duplicate usernames report ErrConflict.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "create user", "username required", nil)
	}
	if passwordHash == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "create user", "password hash required", nil)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, nowTimestamp(),
	)
	if isUniqueViolation(err) {
		return nil, services.Wrap(services.ErrConflict, "library", "create user", fmt.Sprintf("username %q already exists", username), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetUserByID(ctx, id)
}

// GetUserByID fetches a user by identifier; nil when absent.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByName fetches a user by username; nil when absent.
func (s *Store) GetUserByName(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var createdAt string
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = parseTimestamp(createdAt)
	return &user, nil
}
