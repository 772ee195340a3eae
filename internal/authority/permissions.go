package authority

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SkynetHQ/skynet-mysky/internal/events"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

// checkPermissionsMethod is the authority's single RPC.
const checkPermissionsMethod = "checkPermissions"

// checkPermissionsParams is the request payload.
type checkPermissionsParams struct {
	Permissions []models.Permission `json:"permissions"`
	DevMode     bool                `json:"devMode"`
}

// Client mediates permission checks over a memoized authority connection.
// The connection is established asynchronously exactly once per generation:
// concurrent callers awaiting it observe one shared eventual result, never
// duplicate handshakes. A credential change retires the generation; checks
// already in flight finish against the channel they started with.
type Client struct {
	connector   Connector
	logger      *events.Logger
	timeout     time.Duration
	maxAttempts int

	mu  sync.Mutex
	fut *connFuture
}

// connFuture is a pending-or-ready connection value.
type connFuture struct {
	done chan struct{}
	ch   Channel
	err  error
}

// NewClient creates a permissions client.
func NewClient(connector Connector, timeout time.Duration, maxAttempts int, logger *events.Logger) *Client {
	return &Client{
		connector:   connector,
		logger:      logger.WithField("component", "authority"),
		timeout:     timeout,
		maxAttempts: maxAttempts,
	}
}

// Connect begins establishing the connection without blocking. Safe to call
// repeatedly; only the first call per generation dials.
func (c *Client) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLocked()
}

func (c *Client) ensureLocked() *connFuture {
	if c.fut != nil {
		return c.fut
	}

	fut := &connFuture{done: make(chan struct{})}
	c.fut = fut

	go func() {
		ch, err := c.connector.Connect(context.Background(), c.timeout, c.maxAttempts)
		fut.ch = ch
		fut.err = err
		close(fut.done)
		if err != nil {
			c.logger.WithError(err).Error("Authority connection failed")
		}
	}()

	return fut
}

// State reports whether the current connection is pending, ready, or
// failed.
func (c *Client) State() models.ConnState {
	c.mu.Lock()
	fut := c.fut
	c.mu.Unlock()

	if fut == nil {
		return models.ConnPending
	}
	select {
	case <-fut.done:
		if fut.err != nil {
			return models.ConnFailed
		}
		return models.ConnReady
	default:
		return models.ConnPending
	}
}

// channel waits for the shared connection result.
func (c *Client) channel(ctx context.Context) (Channel, error) {
	c.mu.Lock()
	fut := c.ensureLocked()
	c.mu.Unlock()

	select {
	case <-fut.done:
		return fut.ch, fut.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CheckPermissions asks the authority for a verdict on the given batch.
// Verdicts are never cached here: grants may be time-boxed or revoked, so
// every operation re-checks.
func (c *Client) CheckPermissions(ctx context.Context, perms []models.Permission, devMode bool) (*models.CheckPermissionsResponse, error) {
	ch, err := c.channel(ctx)
	if err != nil {
		return nil, fmt.Errorf("authority unavailable: %w", err)
	}

	var resp models.CheckPermissionsResponse
	params := checkPermissionsParams{Permissions: perms, DevMode: devMode}
	if err := ch.Call(ctx, checkPermissionsMethod, params, &resp); err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"granted": len(resp.GrantedPermissions),
		"failed":  len(resp.FailedPermissions),
	}).Debug("Permission check complete")

	return &resp, nil
}

// Retire discards the current connection so the next check dials fresh.
// The old channel is closed best-effort without blocking the caller.
func (c *Client) Retire() {
	c.mu.Lock()
	old := c.fut
	c.fut = nil
	c.mu.Unlock()

	if old == nil {
		return
	}
	go func() {
		<-old.done
		if old.ch != nil {
			if err := old.ch.Close(); err != nil {
				c.logger.WithError(err).Warn("Closing retired authority connection")
			}
		}
	}()
}

// Close retires the connection and waits for nothing.
func (c *Client) Close() {
	c.Retire()
}
