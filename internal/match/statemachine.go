package match

import (
	"slices"
	"strings"
	"time"
)

// Accept moves a requested match to accepted. The owner cannot accept their
// own proposal and is treated as if the match did not exist.
func Accept(m Match, caller string) (*Accepted, error) {
	d := m.Info()
	if !d.HasPlayer(caller) || d.Owner == caller {
		return nil, ErrNotFound
	}
	switch v := m.(type) {
	case *Requested:
		return &Accepted{Details: v.Details}, nil
	case *Accepted:
		return nil, ErrAlreadyAccepted
	default:
		return nil, ErrHasCompleted
	}
}

// CheckCancel reports whether caller may cancel m. Cancelling deletes the match.
func CheckCancel(m Match, caller string) error {
	if !m.Info().HasPlayer(caller) {
		return ErrNotFound
	}
	if m.Status() == StatusComplete {
		return ErrHasCompleted
	}
	return nil
}

// Complete records the final score of an accepted match that has started.
func Complete(m Match, caller string, now time.Time, scores Scores) (*Completed, error) {
	d := m.Info()
	if !d.HasPlayer(caller) {
		return nil, ErrNotFound
	}
	a, ok := m.(*Accepted)
	if !ok {
		return nil, ErrNotAccepted
	}
	if now.Before(a.Date) {
		return nil, ErrNotStarted
	}
	if err := ValidateScores(a.Players, scores); err != nil {
		return nil, err
	}
	score := make(Scores, len(scores))
	for id, s := range scores {
		score[id] = s
	}
	return &Completed{Details: a.Details, Score: score, UsersRated: []string{}}, nil
}

// ValidateScores checks there is exactly one non-negative score per player.
func ValidateScores(players [2]string, scores Scores) error {
	if len(scores) != len(players) {
		return ErrScoreMismatch
	}
	for _, p := range players {
		if _, ok := scores[p]; !ok {
			return ErrScoreMismatch
		}
	}
	for _, s := range scores {
		if s < 0 {
			return ErrNegativeScore
		}
	}
	return nil
}

// AddMessage appends a chat message to an accepted match.
func AddMessage(m Match, caller, text string, now time.Time) (*Accepted, error) {
	if !m.Info().HasPlayer(caller) {
		return nil, ErrNotFound
	}
	a, ok := m.(*Accepted)
	if !ok {
		return nil, ErrNotAccepting
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	next := &Accepted{Details: a.Details}
	next.Messages = append(slices.Clip(a.Messages), Message{Sender: caller, Text: text, Date: now})
	return next, nil
}

// Rate validates a rating of caller's opponent and returns the opponent along
// with the match as it looks once caller is recorded as having rated.
func Rate(m Match, caller string, stars int) (*Completed, string, error) {
	d := m.Info()
	opponent, ok := d.Opponent(caller)
	if !ok {
		return nil, "", ErrNotFound
	}
	c, ok := m.(*Completed)
	if !ok {
		return nil, "", ErrNotCompleted
	}
	if c.HasRated(caller) {
		return nil, "", ErrAlreadyRated
	}
	if stars < 1 || stars > 5 {
		return nil, "", ErrInvalidStars
	}
	next := &Completed{Details: c.Details, Score: c.Score}
	next.UsersRated = append(slices.Clip(c.UsersRated), caller)
	return next, opponent, nil
}
