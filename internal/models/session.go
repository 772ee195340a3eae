package models

import "time"

// SessionState tracks whether a user seed is loaded.
type SessionState int

const (
	SessionLoggedOut SessionState = iota
	SessionLoggedIn
)

func (s SessionState) String() string {
	if s == SessionLoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// ConnState tracks the lifecycle of the authority connection.
type ConnState int

const (
	ConnPending ConnState = iota
	ConnReady
	ConnFailed
)

func (s ConnState) String() string {
	switch s {
	case ConnReady:
		return "ready"
	case ConnFailed:
		return "failed"
	default:
		return "pending"
	}
}

// PortalSession stores the credential returned by a successful portal
// login, attached as a cookie on subsequent authenticated requests.
type PortalSession struct {
	Cookie    string    `json:"cookie"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CredentialChange announces that a companion surface wrote a new seed to
// shared storage. Email is optional; when present, re-login is scheduled.
type CredentialChange struct {
	Seed  []byte
	Email string
}
