package matchmaking

import (
	"context"
	"time"

	"github.com/mauv0809/courtside/internal/league"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/user"
)

// MatchmakingService runs every match action on behalf of an authenticated
// caller. Matches the caller does not play in are reported as not found.
type MatchmakingService interface {
	// Propose creates a match request from caller to the proposed opponent.
	Propose(ctx context.Context, caller string, p Proposal) (*match.Requested, error)

	// Get returns a match caller plays in.
	Get(ctx context.Context, caller, id string) (match.Match, error)

	// Find pages through caller's matches.
	Find(ctx context.Context, caller string, opts match.FindOptions) ([]match.Match, error)

	// FindProposed pages through requests other players sent to caller.
	FindProposed(ctx context.Context, caller string, pageStart, pageSize int) ([]match.Match, error)

	Accept(ctx context.Context, caller, id string) error
	Cancel(ctx context.Context, caller, id string) error
	Complete(ctx context.Context, caller, id string, scores match.Scores) error
	Message(ctx context.Context, caller, id, text string) error
	Rate(ctx context.Context, caller, id string, stars int) error

	// GetUser returns a profile with its rating histogram.
	GetUser(ctx context.Context, id string) (*user.User, error)
	// ListUsers returns every profile ordered by name, without ratings.
	ListUsers(ctx context.Context) ([]user.User, error)
	// UpdateProfile creates or renames caller's profile.
	UpdateProfile(ctx context.Context, caller, name string) (*user.User, error)

	CreateLeague(ctx context.Context, caller, name, sport string) (*league.League, error)
	// GetLeague returns a league caller is a member of.
	GetLeague(ctx context.Context, caller, id string) (*league.League, error)
	JoinLeague(ctx context.Context, caller, id string) error
}

// Clock tells the service what time it is.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
