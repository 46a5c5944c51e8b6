package league

import (
	"context"
	"slices"
	"sync"
)

// MockStore is an in-memory Store for tests. It is safe for concurrent use.
type MockStore struct {
	mu      sync.Mutex
	leagues map[string]*League

	IsMemberFunc func(ctx context.Context, leagueID, userID string) (bool, error)

	// Call records
	CreateCalls    []*League
	AddMemberCalls []struct {
		LeagueID string
		UserID   string
	}
}

// NewMock returns a mock that already knows the given leagues.
func NewMock(leagues ...*League) *MockStore {
	m := &MockStore{leagues: make(map[string]*League)}
	for _, l := range leagues {
		m.leagues[l.ID] = l
	}
	return m
}

func (m *MockStore) Create(_ context.Context, l *League) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, l)
	l.Members = []string{l.Owner}
	m.leagues[l.ID] = l
	return nil
}

func (m *MockStore) Get(_ context.Context, id string) (*League, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leagues[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	cp.Members = slices.Clone(l.Members)
	return &cp, nil
}

func (m *MockStore) AddMember(_ context.Context, leagueID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddMemberCalls = append(m.AddMemberCalls, struct {
		LeagueID string
		UserID   string
	}{leagueID, userID})
	l, ok := m.leagues[leagueID]
	if !ok {
		return ErrNotFound
	}
	if !l.HasMember(userID) {
		l.Members = append(l.Members, userID)
	}
	return nil
}

func (m *MockStore) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsMemberFunc != nil {
		return m.IsMemberFunc(ctx, leagueID, userID)
	}
	l, ok := m.leagues[leagueID]
	return ok && l.HasMember(userID), nil
}
