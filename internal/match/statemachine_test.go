package match_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mauv0809/courtside/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kickoff = time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

func details() match.Details {
	return match.Details{
		ID:       "m1",
		Owner:    "alice",
		Players:  [2]string{"alice", "bob"},
		Sport:    match.SportTennis,
		Date:     kickoff,
		Messages: []match.Message{},
		Version:  1,
	}
}

func requested() *match.Requested { return &match.Requested{Details: details()} }
func accepted() *match.Accepted   { return &match.Accepted{Details: details()} }
func completed(rated ...string) *match.Completed {
	return &match.Completed{
		Details:    details(),
		Score:      match.Scores{"alice": 6, "bob": 3},
		UsersRated: append([]string{}, rated...),
	}
}

func TestAccept(t *testing.T) {
	t.Run("opponent accepts a request", func(t *testing.T) {
		a, err := match.Accept(requested(), "bob")
		require.NoError(t, err)
		assert.Equal(t, match.StatusAccepted, a.Status())
		assert.Equal(t, "m1", a.ID)
	})

	t.Run("owner is told the match does not exist", func(t *testing.T) {
		_, err := match.Accept(requested(), "alice")
		assert.ErrorIs(t, err, match.ErrNotFound)
	})

	t.Run("outsider is told the match does not exist", func(t *testing.T) {
		_, err := match.Accept(requested(), "carol")
		assert.ErrorIs(t, err, match.ErrNotFound)
	})

	t.Run("already accepted", func(t *testing.T) {
		_, err := match.Accept(accepted(), "bob")
		assert.ErrorIs(t, err, match.ErrAlreadyAccepted)
		assert.Equal(t, "The match is already accepted", err.Error())
	})

	t.Run("completed", func(t *testing.T) {
		_, err := match.Accept(completed(), "bob")
		assert.ErrorIs(t, err, match.ErrHasCompleted)
	})
}

func TestCheckCancel(t *testing.T) {
	assert.NoError(t, match.CheckCancel(requested(), "alice"))
	assert.NoError(t, match.CheckCancel(requested(), "bob"))
	assert.NoError(t, match.CheckCancel(accepted(), "bob"))
	assert.ErrorIs(t, match.CheckCancel(completed(), "alice"), match.ErrHasCompleted)
	assert.ErrorIs(t, match.CheckCancel(accepted(), "carol"), match.ErrNotFound)
}

func TestComplete(t *testing.T) {
	after := kickoff.Add(2 * time.Hour)
	scores := match.Scores{"alice": 6, "bob": 4}

	t.Run("records the score", func(t *testing.T) {
		a := accepted()
		c, err := match.Complete(a, "bob", after, scores)
		require.NoError(t, err)
		assert.Equal(t, match.StatusComplete, c.Status())
		assert.Equal(t, scores, c.Score)
		assert.Empty(t, c.UsersRated)

		scores["alice"] = 0
		assert.Equal(t, 6, c.Score["alice"], "score must be copied")
		scores["alice"] = 6
	})

	t.Run("exactly at kickoff is allowed", func(t *testing.T) {
		_, err := match.Complete(accepted(), "alice", kickoff, scores)
		assert.NoError(t, err)
	})

	tests := []struct {
		name   string
		m      match.Match
		caller string
		now    time.Time
		scores match.Scores
		want   error
	}{
		{"request", requested(), "alice", after, scores, match.ErrNotAccepted},
		{"complete", completed(), "alice", after, scores, match.ErrNotAccepted},
		{"outsider", accepted(), "carol", after, scores, match.ErrNotFound},
		{"before kickoff", accepted(), "alice", kickoff.Add(-time.Minute), scores, match.ErrNotStarted},
		{"missing player", accepted(), "alice", after, match.Scores{"alice": 6}, match.ErrScoreMismatch},
		{"extra player", accepted(), "alice", after, match.Scores{"alice": 6, "bob": 2, "carol": 1}, match.ErrScoreMismatch},
		{"wrong player", accepted(), "alice", after, match.Scores{"alice": 6, "carol": 2}, match.ErrScoreMismatch},
		{"negative", accepted(), "alice", after, match.Scores{"alice": 6, "bob": -1}, match.ErrNegativeScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := match.Complete(tt.m, tt.caller, tt.now, tt.scores)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAddMessage(t *testing.T) {
	now := kickoff.Add(-time.Hour)

	t.Run("appends without touching the original", func(t *testing.T) {
		a := accepted()
		a.Messages = append(make([]match.Message, 0, 4), match.Message{Sender: "alice", Text: "hi", Date: now})

		next, err := match.AddMessage(a, "bob", "see you there", now)
		require.NoError(t, err)
		require.Len(t, next.Messages, 2)
		assert.Equal(t, match.Message{Sender: "bob", Text: "see you there", Date: now}, next.Messages[1])
		assert.Len(t, a.Messages, 1)
	})

	t.Run("request is not accepting", func(t *testing.T) {
		_, err := match.AddMessage(requested(), "bob", "hi", now)
		assert.ErrorIs(t, err, match.ErrNotAccepting)
	})

	t.Run("complete is not accepting", func(t *testing.T) {
		_, err := match.AddMessage(completed(), "bob", "hi", now)
		assert.ErrorIs(t, err, match.ErrNotAccepting)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := match.AddMessage(accepted(), "bob", "   ", now)
		assert.ErrorIs(t, err, match.ErrEmptyMessage)
	})

	t.Run("outsider", func(t *testing.T) {
		_, err := match.AddMessage(accepted(), "carol", "hi", now)
		assert.ErrorIs(t, err, match.ErrNotFound)
	})
}

func TestRate(t *testing.T) {
	t.Run("rates the opponent", func(t *testing.T) {
		c := completed()
		next, opponent, err := match.Rate(c, "alice", 4)
		require.NoError(t, err)
		assert.Equal(t, "bob", opponent)
		assert.Equal(t, []string{"alice"}, next.UsersRated)
		assert.Empty(t, c.UsersRated)
	})

	t.Run("second player rates too", func(t *testing.T) {
		next, opponent, err := match.Rate(completed("alice"), "bob", 5)
		require.NoError(t, err)
		assert.Equal(t, "alice", opponent)
		assert.Equal(t, []string{"alice", "bob"}, next.UsersRated)
	})

	t.Run("already rated", func(t *testing.T) {
		_, _, err := match.Rate(completed("alice"), "alice", 4)
		assert.ErrorIs(t, err, match.ErrAlreadyRated)
		assert.Equal(t, "You have already rated the match!", err.Error())
	})

	t.Run("not completed", func(t *testing.T) {
		_, _, err := match.Rate(accepted(), "alice", 4)
		assert.ErrorIs(t, err, match.ErrNotCompleted)
	})

	t.Run("stars out of range", func(t *testing.T) {
		for _, stars := range []int{0, 6, -1} {
			_, _, err := match.Rate(completed(), "alice", stars)
			assert.ErrorIs(t, err, match.ErrInvalidStars)
		}
	})

	t.Run("outsider", func(t *testing.T) {
		_, _, err := match.Rate(completed(), "carol", 4)
		assert.ErrorIs(t, err, match.ErrNotFound)
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, match.KindNotFound, match.KindOf(match.ErrNotFound))
	assert.Equal(t, match.KindValidation, match.KindOf(match.ErrInvalidDate))
	assert.Equal(t, match.KindConflict, match.KindOf(match.ErrStaleWrite))
	assert.Equal(t, match.KindConflict, match.KindOf(fmt.Errorf("wrapped: %w", match.ErrAlreadyRated)))
	assert.Equal(t, match.KindInternal, match.KindOf(errors.New("boom")))
}
