// Package authority talks to the permissions provider: the separate,
// less-trusted delegate that approves or denies every capability before a
// signature is produced. Core logic depends only on the abstract channel
// interfaces here, never on a concrete transport.
package authority

import (
	"context"
	"time"
)

// Channel is an established call channel to the authority. Calls suspend
// only the initiating operation; a closed channel rejects in-flight and
// future calls instead of hanging.
type Channel interface {
	// Call invokes a remote method and decodes the reply into result.
	Call(ctx context.Context, method string, params, result interface{}) error

	// Close terminates the underlying worker and rejects pending calls.
	Close() error
}

// Connector establishes channels, performing the handshake with retries.
type Connector interface {
	Connect(ctx context.Context, timeout time.Duration, maxAttempts int) (Channel, error)
}
