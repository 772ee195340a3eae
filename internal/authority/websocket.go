package authority

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SkynetHQ/skynet-mysky/internal/events"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

// WSConnector dials the authority over a WebSocket and speaks a small
// JSON-RPC framing: {"id", "method", "params"} / {"id", "result", "error"}.
type WSConnector struct {
	url    string
	logger *events.Logger
}

// NewWSConnector creates a connector for the given authority URL.
func NewWSConnector(url string, logger *events.Logger) *WSConnector {
	if len(url) > 4 && url[:4] == "http" {
		url = "ws" + url[4:]
	}
	return &WSConnector{
		url:    url,
		logger: logger.WithField("component", "authority_ws"),
	}
}

// Connect performs the handshake, retrying up to maxAttempts.
func (c *WSConnector) Connect(ctx context.Context, timeout time.Duration, maxAttempts int) (Channel, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	dialer := websocket.Dialer{HandshakeTimeout: timeout}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt-1) * 500 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		conn, resp, err := dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if resp != nil {
				lastErr = fmt.Errorf("authority connect failed (HTTP %d): %w", resp.StatusCode, err)
			} else {
				lastErr = fmt.Errorf("authority connect failed: %w", err)
			}
			c.logger.WithError(lastErr).WithField("attempt", attempt).Warn("Handshake failed")
			continue
		}

		c.logger.WithField("url", c.url).Info("Authority connected")
		return newWSChannel(conn, c.logger), nil
	}

	return nil, fmt.Errorf("authority handshake gave up after %d attempts: %w", maxAttempts, lastErr)
}

var _ Connector = (*WSConnector)(nil)

// rpcRequest and rpcResponse are the wire frames.
type rpcRequest struct {
	ID     uint64          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// wsChannel multiplexes concurrent calls over one connection: each call
// gets an id and a reply slot, the reader goroutine routes responses.
// gorilla permits one concurrent writer, so writeMu serializes every
// outbound frame, including the close handshake.
type wsChannel struct {
	conn    *websocket.Conn
	logger  *events.Logger
	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan rpcResponse
	closed  bool

	done chan struct{}
}

func newWSChannel(conn *websocket.Conn, logger *events.Logger) *wsChannel {
	ch := &wsChannel{
		conn:    conn,
		logger:  logger,
		pending: make(map[uint64]chan rpcResponse),
		done:    make(chan struct{}),
	}
	go ch.readLoop()
	return ch
}

// Call sends a request and waits for its reply, the context deadline, or
// channel teardown, whichever comes first.
func (ch *wsChannel) Call(ctx context.Context, method string, params, result interface{}) error {
	var rawParams json.RawMessage
	if params != nil {
		var err error
		rawParams, err = json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal params: %w", err)
		}
	}

	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return models.ErrConnectionClosed
	}
	ch.nextID++
	id := ch.nextID
	reply := make(chan rpcResponse, 1)
	ch.pending[id] = reply
	ch.mu.Unlock()

	defer func() {
		ch.mu.Lock()
		delete(ch.pending, id)
		ch.mu.Unlock()
	}()

	ch.writeMu.Lock()
	err := ch.conn.WriteJSON(rpcRequest{ID: id, Method: method, Params: rawParams})
	ch.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}

	select {
	case resp := <-reply:
		if resp.Error != "" {
			return fmt.Errorf("authority %s: %s", method, resp.Error)
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("decode %s result: %w", method, err)
			}
		}
		return nil
	case <-ch.done:
		return models.ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears the connection down and rejects every pending call.
func (ch *wsChannel) Close() error {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return nil
	}
	ch.closed = true
	close(ch.done)
	ch.mu.Unlock()

	ch.writeMu.Lock()
	_ = ch.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ch.writeMu.Unlock()
	return ch.conn.Close()
}

func (ch *wsChannel) readLoop() {
	defer func() {
		_ = ch.Close()
	}()

	for {
		var resp rpcResponse
		if err := ch.conn.ReadJSON(&resp); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				ch.logger.WithError(err).Error("Authority read error")
			}
			return
		}

		ch.mu.Lock()
		reply, ok := ch.pending[resp.ID]
		ch.mu.Unlock()

		if !ok {
			ch.logger.WithField("id", resp.ID).Warn("Reply for unknown call")
			continue
		}
		reply <- resp
	}
}
