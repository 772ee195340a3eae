// Package store persists the root seed and remembered account identifier.
// Absence or malformed contents mean "logged out"; malformed contents are
// cleared rather than surfaced, so a corrupted store can never wedge the
// session in a half-authenticated state.
package store

import "errors"

// ErrNotFound is returned when no credential is stored.
var ErrNotFound = errors.New("credential not found")

// Credentials is what survives across sessions.
type Credentials struct {
	Seed  []byte `json:"seed"`
	Email string `json:"email,omitempty"`
}

// Store is the durable credential store.
type Store interface {
	// Read returns the stored credentials, or ErrNotFound.
	Read() (*Credentials, error)

	// Write persists credentials, replacing any previous value.
	Write(creds *Credentials) error

	// Clear removes all stored credentials. Clearing an empty store is
	// not an error.
	Clear() error
}
