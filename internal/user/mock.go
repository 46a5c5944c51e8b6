package user

import (
	"context"
	"sync"
)

// MockStore is an in-memory Store for tests. It is safe for concurrent use.
type MockStore struct {
	mu    sync.Mutex
	users map[string]User

	GetFunc    func(ctx context.Context, id string) (*User, error)
	ExistsFunc func(ctx context.Context, id string) (bool, error)

	// Call records
	AddCalls    []User
	GetCalls    []string
	ExistsCalls []string
}

// NewMock returns a mock that already knows the given users.
func NewMock(users ...User) *MockStore {
	m := &MockStore{users: make(map[string]User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockStore) Add(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddCalls = append(m.AddCalls, u)
	m.users[u.ID] = u
	return nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, id)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Rating == nil {
		u.Rating = NewRating()
	}
	return &u, nil
}

func (m *MockStore) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistsCalls = append(m.ExistsCalls, id)
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	_, ok := m.users[id]
	return ok, nil
}

func (m *MockStore) List(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}
