package authority

import (
	"context"
	"sync"
	"time"

	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

// MockChannel is a scriptable authority channel for tests.
type MockChannel struct {
	mu sync.Mutex

	// Verdict configuration: paths listed here are denied, everything
	// else is granted.
	DenyPaths map[string]bool

	// CallErr fails every call when set.
	CallErr error

	// Tracking
	Calls    []string
	Checked  [][]models.Permission
	DevModes []bool

	closed bool
}

// NewMockChannel creates a mock channel granting everything.
func NewMockChannel() *MockChannel {
	return &MockChannel{DenyPaths: make(map[string]bool)}
}

// Deny marks a path as denied.
func (m *MockChannel) Deny(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DenyPaths[path] = true
}

// Call implements Channel.
func (m *MockChannel) Call(ctx context.Context, method string, params, result interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return models.ErrConnectionClosed
	}
	m.Calls = append(m.Calls, method)
	if m.CallErr != nil {
		return m.CallErr
	}

	req, ok := params.(checkPermissionsParams)
	if !ok {
		return nil
	}
	m.Checked = append(m.Checked, req.Permissions)
	m.DevModes = append(m.DevModes, req.DevMode)

	resp := models.CheckPermissionsResponse{}
	for _, p := range req.Permissions {
		if m.DenyPaths[p.Path] && !req.DevMode {
			resp.FailedPermissions = append(resp.FailedPermissions, p)
		} else {
			resp.GrantedPermissions = append(resp.GrantedPermissions, p)
		}
	}

	if out, ok := result.(*models.CheckPermissionsResponse); ok {
		*out = resp
	}
	return nil
}

// Close implements Channel.
func (m *MockChannel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockChannel) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ Channel = (*MockChannel)(nil)

// MockConnector hands out a fixed channel, optionally after a delay or
// with an error, and counts handshakes.
type MockConnector struct {
	mu         sync.Mutex
	Channel    Channel
	ConnectErr error
	Delay      time.Duration
	dials      int
}

// NewMockConnector wraps a channel in a connector.
func NewMockConnector(ch Channel) *MockConnector {
	return &MockConnector{Channel: ch}
}

// Connect implements Connector.
func (m *MockConnector) Connect(ctx context.Context, timeout time.Duration, maxAttempts int) (Channel, error) {
	m.mu.Lock()
	m.dials++
	delay := m.Delay
	err := m.ConnectErr
	ch := m.Channel
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Dials returns how many handshakes were attempted.
func (m *MockConnector) Dials() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dials
}

var _ Connector = (*MockConnector)(nil)
