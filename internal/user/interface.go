package user

import "context"

// Store persists user profiles.
type Store interface {
	Add(ctx context.Context, u User) error
	Get(ctx context.Context, id string) (*User, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]User, error)
}
