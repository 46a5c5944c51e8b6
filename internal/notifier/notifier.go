package notifier

import (
	"context"

	"github.com/mauv0809/courtside/internal/pubsub"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	NotifyMatchEvent(ctx context.Context, event pubsub.MatchEvent, dryRun bool) error
}
