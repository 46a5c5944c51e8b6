package match

import "context"

// Store persists matches. Every method that reads a match by ID scopes the
// lookup to the caller's matches and returns ErrNotFound otherwise.
type Store interface {
	// Create inserts a new proposal.
	Create(ctx context.Context, m *Requested) error

	// Get returns the match if caller is one of its players.
	Get(ctx context.Context, id, caller string) (Match, error)

	// Find pages through the matches caller plays in.
	Find(ctx context.Context, caller string, opts FindOptions) ([]Match, error)

	// Update writes m if nobody changed it since it was read, returning
	// ErrStaleWrite otherwise. On success m's version is advanced.
	Update(ctx context.Context, m Match) error

	// Delete removes m under the same version check as Update.
	Delete(ctx context.Context, m Match) error

	// RecordRating adds the last entry of m.UsersRated as a rater and bumps
	// the opponent's rating histogram at stars, once per rater.
	RecordRating(ctx context.Context, m *Completed, opponent string, stars int) error
}
