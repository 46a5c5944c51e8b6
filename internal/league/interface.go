package league

import "context"

// Store persists leagues and their members.
type Store interface {
	// Create inserts the league with its owner as the first member.
	Create(ctx context.Context, l *League) error
	Get(ctx context.Context, id string) (*League, error)
	// AddMember is a no-op for existing members.
	AddMember(ctx context.Context, leagueID, userID string) error
	IsMember(ctx context.Context, leagueID, userID string) (bool, error)
}
