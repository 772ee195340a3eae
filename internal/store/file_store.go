package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/SkynetHQ/skynet-mysky/internal/events"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
	"github.com/SkynetHQ/skynet-mysky/internal/seed"
)

// credFileName is the well-known key under which the seed is stored.
const credFileName = "credentials.json"

// FileStore keeps credentials in a JSON file with 0600 permissions.
type FileStore struct {
	path   string
	logger *events.Logger
	mu     sync.Mutex
}

// NewFileStore creates a file-backed credential store under baseDir.
func NewFileStore(baseDir string, logger *events.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create credential directory: %w", err)
	}

	return &FileStore{
		path:   filepath.Join(baseDir, credFileName),
		logger: logger.WithField("component", "file_cred_store"),
	}, nil
}

// Read returns the stored credentials. A file with a malformed seed is
// cleared and reported as not found.
func (s *FileStore) Read() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		// An unreadable store must degrade to logged-out, not wedge
		// startup.
		return nil, fmt.Errorf("read credentials: %w: %v", models.ErrStorageUnavailable, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		s.logger.WithError(err).Warn("Clearing malformed credential file")
		_ = os.Remove(s.path)
		return nil, ErrNotFound
	}

	if len(creds.Seed) != seed.EntropySize {
		s.logger.WithField("length", len(creds.Seed)).Warn("Clearing credential with bad seed length")
		_ = os.Remove(s.path)
		return nil, ErrNotFound
	}

	return &creds, nil
}

// Write persists credentials with restricted permissions.
func (s *FileStore) Write(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the credential file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
