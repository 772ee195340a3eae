package store

import "sync"

// MockStore is an in-memory credential store for tests.
type MockStore struct {
	mu    sync.Mutex
	creds *Credentials

	// Error injection
	ReadErr  error
	WriteErr error
	ClearErr error

	// Tracking
	Writes int
	Clears int
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// Read implements Store.
func (m *MockStore) Read() (*Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if m.creds == nil {
		return nil, ErrNotFound
	}
	c := *m.creds
	c.Seed = append([]byte(nil), m.creds.Seed...)
	return &c, nil
}

// Write implements Store.
func (m *MockStore) Write(creds *Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Writes++
	c := *creds
	c.Seed = append([]byte(nil), creds.Seed...)
	m.creds = &c
	return nil
}

// Clear implements Store.
func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Clears++
	m.creds = nil
	return nil
}

var _ Store = (*MockStore)(nil)
