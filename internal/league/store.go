package league

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/match"
)

type store struct {
	db *sql.DB
}

// NewStore creates a SQLite-backed league store.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) Create(ctx context.Context, l *League) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO leagues (id, name, sport, owner_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.Name, string(l.Sport), l.Owner, l.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create league: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO league_members (league_id, user_id, joined_at) VALUES (?, ?, ?)`,
		l.ID, l.Owner, l.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to add league owner: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit league: %w", err)
	}
	l.Members = []string{l.Owner}
	log.Debug("Created league", "id", l.ID, "name", l.Name, "owner", l.Owner)
	return nil
}

func (s *store) Get(ctx context.Context, id string) (*League, error) {
	var (
		l         League
		sport     string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, name, sport, owner_id, created_at FROM leagues WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &sport, &l.Owner, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league %s: %w", id, err)
	}
	l.Sport = match.Sport(sport)
	l.CreatedAt = time.UnixMilli(createdAt).UTC()

	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM league_members WHERE league_id = ? ORDER BY joined_at ASC, rowid ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get league members: %w", err)
	}
	defer rows.Close()
	l.Members = []string{}
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan league member: %w", err)
		}
		l.Members = append(l.Members, member)
	}
	return &l, rows.Err()
}

func (s *store) AddMember(ctx context.Context, leagueID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO league_members (league_id, user_id, joined_at)
		SELECT id, ?, ? FROM leagues WHERE id = ?
		ON CONFLICT(league_id, user_id) DO NOTHING`,
		userID, time.Now().UnixMilli(), leagueID)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either already a member or the league is missing.
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leagues WHERE id = ?`, leagueID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check league: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (s *store) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM league_members WHERE league_id = ? AND user_id = ?`, leagueID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return n > 0, nil
}
