// Package session owns the login lifecycle: what credential is loaded,
// whether the authority connection is up, and the one automatic recovery
// path (re-login once on an expired session, retry once).
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SkynetHQ/skynet-mysky/internal/events"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
	"github.com/SkynetHQ/skynet-mysky/internal/services/portal"
	"github.com/SkynetHQ/skynet-mysky/internal/store"
	"github.com/SkynetHQ/skynet-mysky/internal/transport"
)

// reloginInterceptorName identifies the auto-relogin interceptor so
// logout can remove it as a unit.
const reloginInterceptorName = "auto-relogin"

// Authenticator performs portal authentication. *portal.Service
// satisfies it.
type Authenticator interface {
	Login(ctx context.Context, entropy []byte) (*models.PortalSession, error)
	Logout(ctx context.Context) error
}

// Authority is the slice of the permissions client the session drives:
// connection lifecycle only, never verdicts.
type Authority interface {
	Connect()
	Retire()
	State() models.ConnState
}

// Service is the session state machine. All transitions go through its
// methods; nothing else mutates login state.
type Service struct {
	store     store.Store
	transport transport.Transport
	auth      Authenticator
	authority Authority
	logger    *events.Logger

	mu    sync.Mutex
	state models.SessionState
	creds *store.Credentials

	// reloginMu serializes the synchronous 401 recovery so concurrent
	// expired requests trigger one re-login, not a stampede.
	reloginMu sync.Mutex
}

// NewService creates a session service. Call Start to load persisted
// state.
func NewService(st store.Store, t transport.Transport, auth Authenticator, authority Authority, logger *events.Logger) *Service {
	return &Service{
		store:     st,
		transport: t,
		auth:      auth,
		authority: authority,
		logger:    logger.WithField("service", "session"),
		state:     models.SessionLoggedOut,
	}
}

// Start loads persisted credentials. Absent or unreadable storage means
// logged out, never a crash. When a credential is found the authority
// connection starts in the background, and if an account email was
// remembered a portal re-login is scheduled.
func (s *Service) Start(ctx context.Context) error {
	creds, err := s.store.Read()
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.logger.Debug("No stored credential, starting logged out")
		return nil
	case errors.Is(err, models.ErrStorageUnavailable):
		s.logger.Warn("Durable storage unavailable, degrading to logged out")
		return nil
	case err != nil:
		return fmt.Errorf("read credential store: %w", err)
	}

	s.mu.Lock()
	s.creds = creds
	s.state = models.SessionLoggedIn
	s.mu.Unlock()

	s.authority.Connect()

	if creds.Email != "" {
		go s.relogin(context.WithoutCancel(ctx))
	}

	s.logger.Info("Session restored from stored credential")
	return nil
}

// State reports whether a seed is loaded.
func (s *Service) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ConnState reports the authority connection lifecycle.
func (s *Service) ConnState() models.ConnState {
	return s.authority.State()
}

// Entropy returns the loaded seed, or ErrNotLoggedIn.
func (s *Service) Entropy() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.SessionLoggedIn || s.creds == nil {
		return nil, models.ErrNotLoggedIn
	}
	return s.creds.Seed, nil
}

// Login authenticates against the portal with the given seed, persists
// the credential, and brings up the authority connection.
func (s *Service) Login(ctx context.Context, entropy []byte, email string) error {
	sess, err := s.auth.Login(ctx, entropy)
	if err != nil {
		return err
	}
	if email == "" {
		email = sess.Email
	}

	s.transport.SetCredential(sess.Cookie)
	s.Adopt(entropy, email)
	return nil
}

// Adopt loads a seed that was already authenticated elsewhere, persists
// it, and brings up the authority connection. No portal round-trip.
func (s *Service) Adopt(entropy []byte, email string) {
	s.adopt(&store.Credentials{Seed: entropy, Email: email})
}

// HandleCredentialChange reacts to a companion surface writing a new
// seed: the old authority connection is retired best-effort, a fresh one
// starts from the new seed, and re-login is scheduled if an account
// identifier came along. In-flight permission checks finish against the
// connection they started with.
func (s *Service) HandleCredentialChange(ctx context.Context, change models.CredentialChange) error {
	s.authority.Retire()
	s.adopt(&store.Credentials{Seed: change.Seed, Email: change.Email})

	if change.Email != "" {
		go s.relogin(context.WithoutCancel(ctx))
	}
	return nil
}

// adopt persists new credentials and flips the state machine to logged
// in. A storage failure is logged, not fatal: the in-memory session is
// valid for this process either way.
func (s *Service) adopt(creds *store.Credentials) {
	s.mu.Lock()
	s.creds = creds
	s.state = models.SessionLoggedIn
	s.mu.Unlock()

	if err := s.store.Write(creds); err != nil {
		s.logger.WithError(err).Warn("Persisting credential failed")
	}

	s.authority.Connect()
}

// SetupAutoRelogin installs the 401-recovery interceptor. A second call
// while one is installed fails with ErrAlreadyConfigured.
func (s *Service) SetupAutoRelogin() error {
	return s.transport.Install(reloginInterceptorName, s.reloginInterceptor)
}

// reloginInterceptor recovers from an expired session exactly once per
// request: re-login synchronously, retry the original request, and let a
// second failure propagate. Logout requests are exempt, otherwise a
// logout against a dead session would log the user back in.
func (s *Service) reloginInterceptor(next transport.RoundTripFunc) transport.RoundTripFunc {
	return func(ctx context.Context, req *transport.Request) (*transport.Result, error) {
		res, err := next(ctx, req)
		if err == nil || !errors.Is(err, models.ErrAuthExpired) || req.Path == portal.LogoutPath {
			return res, err
		}

		s.logger.WithField("path", req.Path).Info("Session expired, re-authenticating")
		if rerr := s.relogin(ctx); rerr != nil {
			return nil, errors.Join(err, rerr)
		}
		return next(ctx, req)
	}
}

// relogin performs one portal login from stored credentials. Serialized
// so concurrent expired requests share a single re-login.
func (s *Service) relogin(ctx context.Context) error {
	s.reloginMu.Lock()
	defer s.reloginMu.Unlock()

	s.mu.Lock()
	creds := s.creds
	s.mu.Unlock()
	if creds == nil {
		return models.ErrNotLoggedIn
	}

	sess, err := s.auth.Login(ctx, creds.Seed)
	if err != nil {
		s.logger.WithError(err).Warn("Re-login failed")
		return fmt.Errorf("re-login: %w", err)
	}

	s.transport.SetCredential(sess.Cookie)
	s.logger.Debug("Re-login succeeded")
	return nil
}

// Logout clears the stored credential, invalidates the server-side
// session, and removes the auto-relogin interceptor. Partial failures
// are aggregated rather than masking each other; a 401 from the portal
// is not a failure at all.
func (s *Service) Logout(ctx context.Context) error {
	var errs []error

	if err := s.store.Clear(); err != nil && !errors.Is(err, store.ErrNotFound) {
		errs = append(errs, fmt.Errorf("clear credential store: %w", err))
	}

	if err := s.auth.Logout(ctx); err != nil {
		errs = append(errs, err)
	}

	s.transport.Uninstall(reloginInterceptorName)
	s.transport.SetCredential("")
	s.authority.Retire()

	s.mu.Lock()
	s.creds = nil
	s.state = models.SessionLoggedOut
	s.mu.Unlock()

	s.logger.Info("Logged out")
	return errors.Join(errs...)
}
