package store

import (
	"fmt"

	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

// UnavailableStore stands in when no durable backend could be opened,
// such as a read-only data directory. Reads report storage as
// unavailable so sessions start logged out instead of the process
// refusing to start; writes fail with the original cause. The session
// itself stays usable in memory.
type UnavailableStore struct {
	cause error
}

// NewUnavailableStore creates a stand-in store carrying the open error.
func NewUnavailableStore(cause error) *UnavailableStore {
	return &UnavailableStore{cause: cause}
}

func (s *UnavailableStore) Read() (*Credentials, error) {
	return nil, fmt.Errorf("credential store unavailable: %w", models.ErrStorageUnavailable)
}

func (s *UnavailableStore) Write(*Credentials) error {
	return fmt.Errorf("credential store unavailable: %w", s.cause)
}

// Clear is a no-op: nothing was ever persisted.
func (s *UnavailableStore) Clear() error { return nil }

var _ Store = (*UnavailableStore)(nil)
