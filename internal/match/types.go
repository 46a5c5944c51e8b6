package match

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusRequest  Status = "Request"
	StatusAccepted Status = "Accepted"
	StatusComplete Status = "Complete"
)

// Sport is the game a match is played in.
type Sport string

const (
	SportTennis    Sport = "Tennis"
	SportSquash    Sport = "Squash"
	SportBadminton Sport = "Badminton"
)

var sports = []Sport{SportTennis, SportSquash, SportBadminton}

// ParseSport returns the Sport named by s.
func ParseSport(s string) (Sport, bool) {
	for _, sport := range sports {
		if string(sport) == s {
			return sport, true
		}
	}
	return "", false
}

// Message is a chat line attached to a match.
type Message struct {
	Sender string    `json:"sender" bson:"sender"`
	Text   string    `json:"text" bson:"text"`
	Date   time.Time `json:"date" bson:"date"`
}

// Scores maps a player ID to the score they finished with.
type Scores map[string]int

// Details holds the fields every match carries regardless of its status.
type Details struct {
	ID       string
	Owner    string
	Players  [2]string
	Sport    Sport
	Date     time.Time
	Messages []Message
	League   string
	Round    int
	// Version is bumped on every successful write and guards against lost updates.
	Version int64
}

// Match is one of *Requested, *Accepted or *Completed.
type Match interface {
	Status() Status
	Info() *Details
	sealed()
}

// Requested is a proposal waiting for the opponent.
type Requested struct{ Details }

// Accepted is a match both players have agreed to.
type Accepted struct{ Details }

// Completed is a played match. Only completed matches have a score.
type Completed struct {
	Details
	Score      Scores
	UsersRated []string
}

func (*Requested) Status() Status { return StatusRequest }
func (*Accepted) Status() Status  { return StatusAccepted }
func (*Completed) Status() Status { return StatusComplete }

func (d *Details) Info() *Details { return d }
func (d *Details) sealed()        {}

// HasPlayer reports whether userID takes part in the match.
func (d *Details) HasPlayer(userID string) bool {
	return d.Players[0] == userID || d.Players[1] == userID
}

// Opponent returns the player facing userID.
func (d *Details) Opponent(userID string) (string, bool) {
	switch userID {
	case d.Players[0]:
		return d.Players[1], true
	case d.Players[1]:
		return d.Players[0], true
	}
	return "", false
}

// HasRated reports whether userID already rated the match.
func (c *Completed) HasRated(userID string) bool {
	for _, id := range c.UsersRated {
		if id == userID {
			return true
		}
	}
	return false
}

func (r *Requested) MarshalJSON() ([]byte, error) { return json.Marshal(ToDocument(r)) }
func (a *Accepted) MarshalJSON() ([]byte, error)  { return json.Marshal(ToDocument(a)) }
func (c *Completed) MarshalJSON() ([]byte, error) { return json.Marshal(ToDocument(c)) }

// Query narrows a search to matches with the given attributes.
// Zero values match everything.
type Query struct {
	Status Status `json:"status,omitempty"`
	Sport  Sport  `json:"sport,omitempty"`
	League string `json:"league,omitempty"`
	// NotOwnedBy excludes matches proposed by the given user.
	NotOwnedBy string `json:"-"`
}

// FindOptions pages through the matches visible to a user.
type FindOptions struct {
	Query     Query `json:"query"`
	PageStart int   `json:"pageStart,omitempty"`
	PageSize  int   `json:"pageSize,omitempty"`
	// SortDate orders by match date: 1 ascending, -1 descending, 0 creation order.
	SortDate int `json:"-"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps paging to sane bounds.
func (o FindOptions) Normalize() FindOptions {
	if o.PageStart < 0 {
		o.PageStart = 0
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	if o.SortDate > 0 {
		o.SortDate = 1
	} else if o.SortDate < 0 {
		o.SortDate = -1
	}
	return o
}
