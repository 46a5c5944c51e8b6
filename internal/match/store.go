package match

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// store handles database operations for matches.
type store struct {
	db *sql.DB
}

// NewStore creates a new SQLite-backed match store.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

const selectMatch = `
	SELECT id, owner_id, player_one, player_two, sport, date, status, league_id, round, version
	FROM matches`

// Create inserts a new proposal.
func (s *store) Create(ctx context.Context, m *Requested) error {
	if m.Version == 0 {
		m.Version = 1
	}
	var league sql.NullString
	if m.League != "" {
		league = sql.NullString{String: m.League, Valid: true}
	}
	var round sql.NullInt64
	if m.Round != 0 {
		round = sql.NullInt64{Int64: int64(m.Round), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (id, owner_id, player_one, player_two, sport, date, status, league_id, round, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Owner, m.Players[0], m.Players[1], string(m.Sport), m.Date.UnixMilli(),
		string(StatusRequest), league, round, m.Version, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	log.Debug("Created match", "id", m.ID, "owner", m.Owner)
	return nil
}

// Get returns the match if caller is one of its players.
func (s *store) Get(ctx context.Context, id, caller string) (Match, error) {
	row := s.db.QueryRowContext(ctx, selectMatch+` WHERE id = ? AND (player_one = ? OR player_two = ?)`, id, caller, caller)
	doc, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if err := s.hydrate(ctx, doc); err != nil {
		return nil, err
	}
	return FromDocument(*doc)
}

// Find pages through the matches caller plays in.
func (s *store) Find(ctx context.Context, caller string, opts FindOptions) ([]Match, error) {
	opts = opts.Normalize()

	where := []string{"(player_one = ? OR player_two = ?)"}
	args := []any{caller, caller}
	if opts.Query.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(opts.Query.Status))
	}
	if opts.Query.Sport != "" {
		where = append(where, "sport = ?")
		args = append(args, string(opts.Query.Sport))
	}
	if opts.Query.League != "" {
		where = append(where, "league_id = ?")
		args = append(args, opts.Query.League)
	}
	if opts.Query.NotOwnedBy != "" {
		where = append(where, "owner_id <> ?")
		args = append(args, opts.Query.NotOwnedBy)
	}

	order := "created_at ASC, rowid ASC"
	switch opts.SortDate {
	case 1:
		order = "date ASC, rowid ASC"
	case -1:
		order = "date DESC, rowid ASC"
	}

	query := selectMatch + " WHERE " + strings.Join(where, " AND ") + " ORDER BY " + order + " LIMIT ? OFFSET ?"
	args = append(args, opts.PageSize, opts.PageStart)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	var docs []*Document
	for rows.Next() {
		doc, err := scanMatch(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		docs = append(docs, doc)
	}
	// The rows must be released before hydrating: a local database runs on a
	// single connection.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	matches := make([]Match, 0, len(docs))
	for _, doc := range docs {
		if err := s.hydrate(ctx, doc); err != nil {
			return nil, err
		}
		m, err := FromDocument(*doc)
		if err != nil {
			log.Warn("Skipping invalid match", "id", doc.ID, "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Update writes the status, new messages and, for completed matches, the score.
func (s *store) Update(ctx context.Context, m Match) error {
	d := m.Info()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := bumpVersion(ctx, tx, d, `status = ?`, string(m.Status())); err != nil {
		return err
	}

	var stored int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_messages WHERE match_id = ?`, d.ID).Scan(&stored); err != nil {
		return fmt.Errorf("failed to count messages: %w", err)
	}
	for _, msg := range d.Messages[min(stored, len(d.Messages)):] {
		_, err := tx.ExecContext(ctx, `INSERT INTO match_messages (match_id, sender_id, text, sent_at) VALUES (?, ?, ?, ?)`,
			d.ID, msg.Sender, msg.Text, msg.Date.UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}

	if c, ok := m.(*Completed); ok {
		for player, score := range c.Score {
			// Scores are immutable once written.
			_, err := tx.ExecContext(ctx, `INSERT INTO match_scores (match_id, player_id, score) VALUES (?, ?, ?)
				ON CONFLICT(match_id, player_id) DO NOTHING`, d.ID, player, score)
			if err != nil {
				return fmt.Errorf("failed to insert score: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match update: %w", err)
	}
	d.Version++
	log.Debug("Updated match", "id", d.ID, "status", m.Status(), "version", d.Version)
	return nil
}

// Delete removes the match and everything attached to it.
func (s *store) Delete(ctx context.Context, m Match) error {
	d := m.Info()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"match_messages", "match_scores", "match_ratings"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE match_id = ?`, d.ID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE id = ? AND version = ?`, d.ID, d.Version)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match deletion: %w", err)
	}
	log.Debug("Deleted match", "id", d.ID)
	return nil
}

// RecordRating stores the rater and bumps the opponent's histogram in one transaction.
func (s *store) RecordRating(ctx context.Context, m *Completed, opponent string, stars int) error {
	if len(m.UsersRated) == 0 {
		return fmt.Errorf("match %s: no rater to record", m.ID)
	}
	rater := m.UsersRated[len(m.UsersRated)-1]

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := bumpVersion(ctx, tx, &m.Details, `status = ?`, string(StatusComplete)); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO match_ratings (match_id, rater_id, stars, rated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(match_id, rater_id) DO NOTHING`, m.ID, rater, stars, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record rater: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyRated
	}
	// Players can take part without ever saving a profile.
	_, err = tx.ExecContext(ctx, `INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING`, opponent, opponent, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to ensure user %s: %w", opponent, err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO user_ratings (user_id, stars, count) VALUES (?, ?, 1)
		ON CONFLICT(user_id, stars) DO UPDATE SET count = count + 1`, opponent, stars)
	if err != nil {
		return fmt.Errorf("failed to increment rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rating: %w", err)
	}
	m.Version++
	log.Debug("Recorded rating", "match", m.ID, "rater", rater, "opponent", opponent, "stars", stars)
	return nil
}

// bumpVersion applies set to the match row only if its version is unchanged.
func bumpVersion(ctx context.Context, tx *sql.Tx, d *Details, set string, args ...any) error {
	args = append(args, d.ID, d.Version)
	res, err := tx.ExecContext(ctx, `UPDATE matches SET `+set+`, version = version + 1 WHERE id = ? AND version = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrStaleWrite
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (*Document, error) {
	var (
		doc    Document
		p1, p2 string
		date   int64
		league sql.NullString
		round  sql.NullInt64
		sport  string
		status string
	)
	err := row.Scan(&doc.ID, &doc.Owner, &p1, &p2, &sport, &date, &status, &league, &round, &doc.Version)
	if err != nil {
		return nil, err
	}
	doc.Players = []string{p1, p2}
	doc.Sport = Sport(sport)
	doc.Status = Status(status)
	doc.Date = time.UnixMilli(date).UTC()
	doc.League = league.String
	doc.Round = int(round.Int64)
	return &doc, nil
}

// hydrate loads the messages, scores and raters of a match.
func (s *store) hydrate(ctx context.Context, doc *Document) error {
	rows, err := s.db.QueryContext(ctx, `SELECT sender_id, text, sent_at FROM match_messages WHERE match_id = ? ORDER BY id ASC`, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to query messages: %w", err)
	}
	doc.Messages = []Message{}
	for rows.Next() {
		var msg Message
		var sentAt int64
		if err := rows.Scan(&msg.Sender, &msg.Text, &sentAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Date = time.UnixMilli(sentAt).UTC()
		doc.Messages = append(doc.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to read messages: %w", err)
	}
	rows.Close()

	if doc.Status != StatusComplete {
		return nil
	}

	rows, err = s.db.QueryContext(ctx, `SELECT player_id, score FROM match_scores WHERE match_id = ?`, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to query scores: %w", err)
	}
	doc.Score = Scores{}
	for rows.Next() {
		var player string
		var score int
		if err := rows.Scan(&player, &score); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan score: %w", err)
		}
		doc.Score[player] = score
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to read scores: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT rater_id FROM match_ratings WHERE match_id = ? ORDER BY rated_at ASC, rowid ASC`, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()
	doc.UsersRated = []string{}
	for rows.Next() {
		var rater string
		if err := rows.Scan(&rater); err != nil {
			return fmt.Errorf("failed to scan rater: %w", err)
		}
		doc.UsersRated = append(doc.UsersRated, rater)
	}
	return rows.Err()
}
