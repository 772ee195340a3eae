package transport

import (
	"context"
	"net/http"
	"net/url"

	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

// Request describes one portal API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Payload interface{}
}

// Result is a decoded portal response.
type Result struct {
	StatusCode int
	Body       map[string]interface{}
	Cookies    []*http.Cookie
}

// RoundTripFunc performs one request against the portal.
type RoundTripFunc func(ctx context.Context, req *Request) (*Result, error)

// Interceptor wraps request execution. Interceptors compose into an
// explicit chain; they are installed under a name and removed as a unit,
// never by reassigning methods at runtime.
type Interceptor func(next RoundTripFunc) RoundTripFunc

// Transport is the portal HTTP surface used by the services.
type Transport interface {
	GetJSON(ctx context.Context, path string, query url.Values) (*Result, error)
	PostJSON(ctx context.Context, path string, payload interface{}) (*Result, error)

	// Credential management. The credential is the portal session cookie
	// attached to authenticated requests.
	SetCredential(cookie string)
	Credential() string

	// Interceptor chain management.
	Install(name string, ic Interceptor) error
	Uninstall(name string)

	Close() error
}

// DefaultTransport implements Transport over HTTP.
type DefaultTransport struct {
	httpClient *HTTPClient
}

// New creates a transport for the configured portal.
func New(client *HTTPClient) *DefaultTransport {
	return &DefaultTransport{httpClient: client}
}

// GetJSON forwards to the HTTP client.
func (t *DefaultTransport) GetJSON(ctx context.Context, path string, query url.Values) (*Result, error) {
	return t.httpClient.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// PostJSON forwards to the HTTP client.
func (t *DefaultTransport) PostJSON(ctx context.Context, path string, payload interface{}) (*Result, error) {
	return t.httpClient.Do(ctx, &Request{Method: http.MethodPost, Path: path, Payload: payload})
}

// SetCredential sets the session cookie.
func (t *DefaultTransport) SetCredential(cookie string) {
	t.httpClient.SetCredential(cookie)
}

// Credential returns the current session cookie.
func (t *DefaultTransport) Credential() string {
	return t.httpClient.Credential()
}

// Install adds a named interceptor to the chain.
func (t *DefaultTransport) Install(name string, ic Interceptor) error {
	return t.httpClient.Install(name, ic)
}

// Uninstall removes a named interceptor.
func (t *DefaultTransport) Uninstall(name string) {
	t.httpClient.Uninstall(name)
}

// Close releases idle connections.
func (t *DefaultTransport) Close() error {
	t.httpClient.Close()
	return nil
}

var _ Transport = (*DefaultTransport)(nil)

// interceptorEntry keeps install order so the chain composes predictably:
// the first installed interceptor is outermost.
type interceptorEntry struct {
	name string
	ic   Interceptor
}

func buildChain(entries []interceptorEntry, final RoundTripFunc) RoundTripFunc {
	rt := final
	for i := len(entries) - 1; i >= 0; i-- {
		rt = entries[i].ic(rt)
	}
	return rt
}

func installEntry(entries []interceptorEntry, name string, ic Interceptor) ([]interceptorEntry, error) {
	for _, e := range entries {
		if e.name == name {
			return entries, models.ErrAlreadyConfigured
		}
	}
	return append(entries, interceptorEntry{name: name, ic: ic}), nil
}

func uninstallEntry(entries []interceptorEntry, name string) []interceptorEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.name != name {
			out = append(out, e)
		}
	}
	return out
}
