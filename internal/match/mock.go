package match

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use. Unset funcs return zero values.
type MockStore struct {
	mu sync.Mutex

	CreateFunc       func(ctx context.Context, m *Requested) error
	GetFunc          func(ctx context.Context, id, caller string) (Match, error)
	FindFunc         func(ctx context.Context, caller string, opts FindOptions) ([]Match, error)
	UpdateFunc       func(ctx context.Context, m Match) error
	DeleteFunc       func(ctx context.Context, m Match) error
	RecordRatingFunc func(ctx context.Context, m *Completed, opponent string, stars int) error

	// Call records
	CreateCalls []*Requested
	GetCalls    []struct {
		ID     string
		Caller string
	}
	FindCalls []struct {
		Caller string
		Opts   FindOptions
	}
	UpdateCalls       []Match
	DeleteCalls       []Match
	RecordRatingCalls []struct {
		Match    *Completed
		Opponent string
		Stars    int
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Create(ctx context.Context, r *Requested) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, r)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	return nil
}

func (m *MockStore) Get(ctx context.Context, id, caller string) (Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, struct {
		ID     string
		Caller string
	}{id, caller})
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id, caller)
	}
	return nil, ErrNotFound
}

func (m *MockStore) Find(ctx context.Context, caller string, opts FindOptions) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls = append(m.FindCalls, struct {
		Caller string
		Opts   FindOptions
	}{caller, opts})
	if m.FindFunc != nil {
		return m.FindFunc(ctx, caller, opts)
	}
	return nil, nil
}

func (m *MockStore) Update(ctx context.Context, match Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, match)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, match)
	}
	return nil
}

func (m *MockStore) Delete(ctx context.Context, match Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, match)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, match)
	}
	return nil
}

func (m *MockStore) RecordRating(ctx context.Context, c *Completed, opponent string, stars int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordRatingCalls = append(m.RecordRatingCalls, struct {
		Match    *Completed
		Opponent string
		Stars    int
	}{c, opponent, stars})
	if m.RecordRatingFunc != nil {
		return m.RecordRatingFunc(ctx, c, opponent, stars)
	}
	return nil
}
