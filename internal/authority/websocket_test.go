package authority_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkynetHQ/skynet-mysky/internal/authority"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

type wsFrame struct {
	ID     uint64          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// newAuthorityServer runs an in-process authority speaking the JSON-RPC
// framing. The handler receives each request and returns the result
// payload or an error string.
func newAuthorityServer(t *testing.T, handle func(wsFrame) (interface{}, string)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var req wsFrame
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			result, errMsg := handle(req)

			resp := map[string]interface{}{"id": req.ID}
			if errMsg != "" {
				resp["error"] = errMsg
			} else {
				resp["result"] = result
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func grantAll(req wsFrame) (interface{}, string) {
	var params struct {
		Permissions []models.Permission `json:"permissions"`
	}
	_ = json.Unmarshal(req.Params, &params)
	return models.CheckPermissionsResponse{GrantedPermissions: params.Permissions}, ""
}

func TestWSConnectorAndCall(t *testing.T) {
	srv := newAuthorityServer(t, grantAll)

	connector := authority.NewWSConnector(srv.URL, testLogger())
	client := authority.NewClient(connector, time.Second, 1, testLogger())
	defer client.Close()

	perm := somePermission()
	resp, err := client.CheckPermissions(context.Background(), []models.Permission{perm}, false)
	require.NoError(t, err)
	assert.True(t, models.Contains(resp.GrantedPermissions, perm))
}

func TestWSCallError(t *testing.T) {
	srv := newAuthorityServer(t, func(req wsFrame) (interface{}, string) {
		return nil, "provider rejected the batch"
	})

	connector := authority.NewWSConnector(srv.URL, testLogger())
	client := authority.NewClient(connector, time.Second, 1, testLogger())
	defer client.Close()

	_, err := client.CheckPermissions(context.Background(), []models.Permission{somePermission()}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider rejected the batch")
}

// One connection, many simultaneous callers. Frame writes must be
// serialized or the underlying connection panics under load.
func TestWSConcurrentCallsMultiplexed(t *testing.T) {
	srv := newAuthorityServer(t, grantAll)

	connector := authority.NewWSConnector(srv.URL, testLogger())
	ch, err := connector.Connect(context.Background(), time.Second, 1)
	require.NoError(t, err)
	defer ch.Close()

	const callers = 100
	done := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			var resp models.CheckPermissionsResponse
			params := map[string]interface{}{
				"permissions": []models.Permission{somePermission()},
			}
			done <- ch.Call(context.Background(), "checkPermissions", params, &resp)
		}()
	}
	for i := 0; i < callers; i++ {
		assert.NoError(t, <-done)
	}
}

// Close's close-handshake write must not interleave with in-flight
// request writes.
func TestWSCloseDuringConcurrentCalls(t *testing.T) {
	srv := newAuthorityServer(t, grantAll)

	connector := authority.NewWSConnector(srv.URL, testLogger())
	ch, err := connector.Connect(context.Background(), time.Second, 1)
	require.NoError(t, err)

	const callers = 50
	done := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			params := map[string]interface{}{
				"permissions": []models.Permission{somePermission()},
			}
			// Success or ErrConnectionClosed are both fine; the point
			// is that the process survives the write contention.
			_ = ch.Call(context.Background(), "checkPermissions", params, nil)
		}()
	}

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, ch.Close())

	for i := 0; i < callers; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("caller hung after close")
		}
	}
}

func TestWSCloseRejectsPendingCalls(t *testing.T) {
	// A server that never replies, so calls stay pending until teardown.
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	connector := authority.NewWSConnector(srv.URL, testLogger())
	ch, err := connector.Connect(context.Background(), time.Second, 1)
	require.NoError(t, err)

	callDone := make(chan error, 1)
	go func() {
		callDone <- ch.Call(context.Background(), "checkPermissions", nil, nil)
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, ch.Close())

	select {
	case err := <-callDone:
		assert.ErrorIs(t, err, models.ErrConnectionClosed)
	case <-time.After(time.Second):
		t.Fatal("pending call hung after close")
	}

	// New calls on the closed channel fail immediately.
	assert.ErrorIs(t, ch.Call(context.Background(), "checkPermissions", nil, nil),
		models.ErrConnectionClosed)
}

func TestWSConnectRetriesThenFails(t *testing.T) {
	connector := authority.NewWSConnector("http://127.0.0.1:1", testLogger())

	start := time.Now()
	_, err := connector.Connect(context.Background(), 100*time.Millisecond, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 attempts")
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond, "backoff between attempts")
}

func TestWSCallRespectsContext(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	connector := authority.NewWSConnector(srv.URL, testLogger())
	ch, err := connector.Connect(context.Background(), time.Second, 1)
	require.NoError(t, err)
	defer ch.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, ch.Call(ctx, "checkPermissions", nil, nil), context.DeadlineExceeded)
}
