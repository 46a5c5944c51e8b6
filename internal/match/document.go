package match

import (
	"fmt"
	"time"
)

// Document is the flat wire and storage shape of a match.
type Document struct {
	ID         string    `json:"id" bson:"_id"`
	Owner      string    `json:"owner" bson:"owner"`
	Players    []string  `json:"players" bson:"players"`
	Sport      Sport     `json:"sport" bson:"sport"`
	Date       time.Time `json:"date" bson:"date"`
	Status     Status    `json:"status" bson:"status"`
	Messages   []Message `json:"messages" bson:"messages"`
	Score      Scores    `json:"score,omitempty" bson:"score,omitempty"`
	UsersRated []string  `json:"usersRated,omitempty" bson:"usersRated,omitempty"`
	League     string    `json:"league,omitempty" bson:"league,omitempty"`
	Round      int       `json:"round,omitempty" bson:"round,omitempty"`
	Version    int64     `json:"-" bson:"version"`
}

// ToDocument flattens a match.
func ToDocument(m Match) Document {
	d := m.Info()
	doc := Document{
		ID:       d.ID,
		Owner:    d.Owner,
		Players:  []string{d.Players[0], d.Players[1]},
		Sport:    d.Sport,
		Date:     d.Date,
		Status:   m.Status(),
		Messages: d.Messages,
		League:   d.League,
		Round:    d.Round,
		Version:  d.Version,
	}
	if doc.Messages == nil {
		doc.Messages = []Message{}
	}
	if c, ok := m.(*Completed); ok {
		doc.Score = c.Score
		doc.UsersRated = c.UsersRated
	}
	return doc
}

// FromDocument rebuilds the typed match, rejecting documents that break the
// match invariants.
func FromDocument(doc Document) (Match, error) {
	if len(doc.Players) != 2 {
		return nil, fmt.Errorf("match %s: expected 2 players, got %d", doc.ID, len(doc.Players))
	}
	if doc.Players[0] == doc.Players[1] {
		return nil, fmt.Errorf("match %s: duplicate player %s", doc.ID, doc.Players[0])
	}
	d := Details{
		ID:       doc.ID,
		Owner:    doc.Owner,
		Players:  [2]string{doc.Players[0], doc.Players[1]},
		Sport:    doc.Sport,
		Date:     doc.Date,
		Messages: doc.Messages,
		League:   doc.League,
		Round:    doc.Round,
		Version:  doc.Version,
	}
	if !d.HasPlayer(d.Owner) {
		return nil, fmt.Errorf("match %s: owner %s is not a player", doc.ID, doc.Owner)
	}
	if d.Messages == nil {
		d.Messages = []Message{}
	}

	switch doc.Status {
	case StatusRequest, StatusAccepted:
		if len(doc.Score) > 0 || len(doc.UsersRated) > 0 {
			return nil, fmt.Errorf("match %s: only completed matches carry a score", doc.ID)
		}
		if doc.Status == StatusRequest {
			return &Requested{Details: d}, nil
		}
		return &Accepted{Details: d}, nil
	case StatusComplete:
		if err := ValidateScores(d.Players, doc.Score); err != nil {
			return nil, fmt.Errorf("match %s: %v", doc.ID, err)
		}
		seen := make(map[string]bool, len(doc.UsersRated))
		for _, id := range doc.UsersRated {
			if !d.HasPlayer(id) || seen[id] {
				return nil, fmt.Errorf("match %s: invalid rater %s", doc.ID, id)
			}
			seen[id] = true
		}
		return &Completed{Details: d, Score: doc.Score, UsersRated: doc.UsersRated}, nil
	}
	return nil, fmt.Errorf("match %s: unknown status %q", doc.ID, doc.Status)
}
