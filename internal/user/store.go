package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

type store struct {
	db *sql.DB
}

// NewStore creates a SQLite-backed user store.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

// Add inserts the user or renames an existing one. Ratings are left untouched.
func (s *store) Add(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		u.ID, u.Name, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	log.Debug("Upserted user", "id", u.ID, "name", u.Name)
	return nil
}

func (s *store) Get(ctx context.Context, id string) (*User, error) {
	u := User{Rating: NewRating()}
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM users WHERE id = ?`, id).Scan(&u.ID, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT stars, count FROM user_ratings WHERE user_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings for %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var stars, count int
		if err := rows.Scan(&stars, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		u.Rating[stars] = count
	}
	return &u, rows.Err()
}

func (s *store) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", id, err)
	}
	return n > 0, nil
}

// List returns every user ordered by name, without ratings.
func (s *store) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
