package league

import (
	"errors"
	"time"

	"github.com/mauv0809/courtside/internal/match"
)

// League groups players who play rounds of matches against each other.
type League struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name" bson:"name"`
	Sport     match.Sport `json:"sport" bson:"sport"`
	Owner     string      `json:"owner" bson:"owner"`
	Members   []string    `json:"members" bson:"members"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
}

// HasMember reports whether userID belongs to the league.
func (l *League) HasMember(userID string) bool {
	for _, m := range l.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// ErrNotFound is returned when no league has the requested ID.
var ErrNotFound = errors.New("league not found")
