package auth

import (
	"context"
	"errors"
	"net/http"
)

// IdentityProvider resolves the user making a request.
type IdentityProvider interface {
	Identify(r *http.Request) (string, error)
}

// ErrUnauthenticated is returned when a request carries no usable credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

type contextKey string

const callerKey contextKey = "caller"

// WithCaller returns a copy of ctx carrying the caller's user ID.
func WithCaller(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, callerKey, userID)
}

// CallerFromContext returns the user ID stored by WithCaller.
func CallerFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callerKey).(string)
	return id, ok && id != ""
}
