package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/courtside/internal/pubsub"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	NotifyMatchEventFunc func(ctx context.Context, event pubsub.MatchEvent, dryRun bool) error

	// Call records
	NotifyMatchEventCalls []struct {
		Event  pubsub.MatchEvent
		DryRun bool
	}
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyMatchEventCalls = nil
}

func (m *Mock) NotifyMatchEvent(ctx context.Context, event pubsub.MatchEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyMatchEventCalls = append(m.NotifyMatchEventCalls, struct {
		Event  pubsub.MatchEvent
		DryRun bool
	}{event, dryRun})
	if m.NotifyMatchEventFunc != nil {
		return m.NotifyMatchEventFunc(ctx, event, dryRun)
	}
	return nil
}
