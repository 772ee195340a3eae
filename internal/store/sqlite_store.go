package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/SkynetHQ/skynet-mysky/internal/events"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
	"github.com/SkynetHQ/skynet-mysky/internal/seed"
)

// SQLiteStore keeps credentials in a single-row SQLite table, for hosts
// that already carry a database and prefer not to scatter dotfiles.
type SQLiteStore struct {
	db     *sql.DB
	logger *events.Logger
}

// NewSQLiteStore creates a SQLite credential store.
func NewSQLiteStore(dbPath string, logger *events.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		logger: logger.WithField("component", "sqlite_cred_store"),
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
    CREATE TABLE IF NOT EXISTS credentials (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        seed BLOB NOT NULL,
        email TEXT NOT NULL DEFAULT '',
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    `
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Read returns the stored credentials. A malformed seed row is cleared
// and reported as not found.
func (s *SQLiteStore) Read() (*Credentials, error) {
	var creds Credentials
	err := s.db.QueryRow("SELECT seed, email FROM credentials WHERE id = 1").
		Scan(&creds.Seed, &creds.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w: %v", models.ErrStorageUnavailable, err)
	}

	if len(creds.Seed) != seed.EntropySize {
		s.logger.WithField("length", len(creds.Seed)).Warn("Clearing credential row with bad seed length")
		_ = s.Clear()
		return nil, ErrNotFound
	}

	return &creds, nil
}

// Write persists credentials, replacing any previous row.
func (s *SQLiteStore) Write(creds *Credentials) error {
	_, err := s.db.Exec(`
        INSERT INTO credentials (id, seed, email, updated_at)
        VALUES (1, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(id) DO UPDATE SET
            seed = excluded.seed,
            email = excluded.email,
            updated_at = CURRENT_TIMESTAMP`,
		creds.Seed, creds.Email)
	if err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the credential row.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM credentials WHERE id = 1"); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
