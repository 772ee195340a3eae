// Package client wires configuration, transport, storage, the
// permissions authority, and the services into one high-level API.
package client

import (
	"context"
	"path/filepath"

	"github.com/SkynetHQ/skynet-mysky/internal/authority"
	"github.com/SkynetHQ/skynet-mysky/internal/config"
	"github.com/SkynetHQ/skynet-mysky/internal/events"
	"github.com/SkynetHQ/skynet-mysky/internal/services/gateway"
	"github.com/SkynetHQ/skynet-mysky/internal/services/portal"
	"github.com/SkynetHQ/skynet-mysky/internal/services/session"
	"github.com/SkynetHQ/skynet-mysky/internal/store"
	"github.com/SkynetHQ/skynet-mysky/internal/transport"
)

// Client provides the high-level API for identity operations.
type Client struct {
	Portal  *portal.Service
	Session *session.Service

	config    *config.Config
	logger    *events.Logger
	transport transport.Transport
	authority *authority.Client
	store     store.Store
}

// New creates a client from configuration.
func New(cfg *config.Config, logger *events.Logger) (*Client, error) {
	httpClient := transport.NewHTTPClient(transport.ClientConfig{
		BaseURL:    cfg.Portal.BaseURL,
		Timeout:    cfg.Portal.Timeout,
		MaxRetries: cfg.Portal.MaxRetries,
		UserAgent:  cfg.Portal.UserAgent,
	}, logger)
	transportClient := transport.New(httpClient)

	credStore := newStore(cfg, logger)

	connector := authority.NewWSConnector(cfg.Authority.URL, logger)
	authorityClient := authority.NewClient(
		connector,
		cfg.Authority.ConnectTimeout,
		cfg.Authority.MaxAttempts,
		logger,
	)

	portalService, err := portal.NewService(
		transportClient,
		cfg.Portal.BaseURL,
		cfg.Portal.AccountTweak,
		logger,
	)
	if err != nil {
		return nil, err
	}

	sessionService := session.NewService(
		credStore,
		transportClient,
		portalService,
		authorityClient,
		logger,
	)

	return &Client{
		Portal:    portalService,
		Session:   sessionService,
		config:    cfg,
		logger:    logger,
		transport: transportClient,
		authority: authorityClient,
		store:     credStore,
	}, nil
}

// newStore picks the configured backend. A backend that cannot be
// opened degrades to an unavailable store so the session starts logged
// out instead of the client refusing to start.
func newStore(cfg *config.Config, logger *events.Logger) store.Store {
	var (
		s   store.Store
		err error
	)
	switch cfg.Storage.Backend {
	case "sqlite":
		s, err = store.NewSQLiteStore(filepath.Join(cfg.Storage.DataDir, "credentials.db"), logger)
	default:
		s, err = store.NewFileStore(cfg.Storage.DataDir, logger)
	}
	if err != nil {
		logger.WithError(err).Warn("Credential store unavailable, sessions will not persist")
		return store.NewUnavailableStore(err)
	}
	return s
}

// Start restores persisted session state and installs auto-relogin.
func (c *Client) Start(ctx context.Context) error {
	if err := c.Session.SetupAutoRelogin(); err != nil {
		return err
	}
	return c.Session.Start(ctx)
}

// Gateway builds a signing gateway over the current session's seed.
// Fails with ErrNotLoggedIn when no seed is loaded.
func (c *Client) Gateway() (*gateway.Service, error) {
	entropy, err := c.Session.Entropy()
	if err != nil {
		return nil, err
	}
	return gateway.NewService(c.authority, entropy, c.config.Dev.DevMode, c.logger), nil
}

// Login authenticates a seed against the portal and persists it.
func (c *Client) Login(ctx context.Context, entropy []byte, email string) error {
	return c.Session.Login(ctx, entropy, email)
}

// Register creates a portal account for the seed and persists it.
func (c *Client) Register(ctx context.Context, entropy []byte, email string) error {
	sess, err := c.Portal.Register(ctx, entropy, email)
	if err != nil {
		return err
	}
	c.transport.SetCredential(sess.Cookie)
	c.Session.Adopt(entropy, sess.Email)
	return nil
}

// Logout ends the session everywhere it can.
func (c *Client) Logout(ctx context.Context) error {
	return c.Session.Logout(ctx)
}

// Close releases transport and authority resources.
func (c *Client) Close() error {
	c.authority.Close()
	if closer, ok := c.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			c.logger.WithError(err).Warn("Closing credential store")
		}
	}
	return c.transport.Close()
}
