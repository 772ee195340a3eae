package transport

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

// MockTransport provides a mock implementation for testing.
type MockTransport struct {
	mu sync.Mutex

	// Response configuration, keyed by "METHOD path".
	Responses map[string]*Result
	Errors    map[string]error

	// ErrorOnce errors are consumed on first use, letting tests model a
	// 401 that succeeds on retry.
	ErrorsOnce map[string]error

	// Request tracking
	Requests []*Request

	credential   string
	interceptors []interceptorEntry
}

// NewMockTransport creates a mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		Responses:  make(map[string]*Result),
		Errors:     make(map[string]error),
		ErrorsOnce: make(map[string]error),
	}
}

// AddResponse configures the response body for a method and path.
func (m *MockTransport) AddResponse(method, path string, body map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[method+" "+path] = &Result{StatusCode: http.StatusOK, Body: body}
}

// AddResult configures a full result for a method and path.
func (m *MockTransport) AddResult(method, path string, result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[method+" "+path] = result
}

// AddError configures an error for a method and path.
func (m *MockTransport) AddError(method, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[method+" "+path] = err
}

// AddErrorOnce configures an error returned only for the next request.
func (m *MockTransport) AddErrorOnce(method, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorsOnce[method+" "+path] = err
}

// GetJSON mocks an HTTP GET.
func (m *MockTransport) GetJSON(ctx context.Context, path string, query url.Values) (*Result, error) {
	return m.do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// PostJSON mocks an HTTP POST.
func (m *MockTransport) PostJSON(ctx context.Context, path string, payload interface{}) (*Result, error) {
	return m.do(ctx, &Request{Method: http.MethodPost, Path: path, Payload: payload})
}

func (m *MockTransport) do(ctx context.Context, req *Request) (*Result, error) {
	m.mu.Lock()
	entries := make([]interceptorEntry, len(m.interceptors))
	copy(entries, m.interceptors)
	m.mu.Unlock()

	return buildChain(entries, m.execute)(ctx, req)
}

func (m *MockTransport) execute(ctx context.Context, req *Request) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)

	key := req.Method + " " + req.Path
	if err, ok := m.ErrorsOnce[key]; ok {
		delete(m.ErrorsOnce, key)
		return nil, err
	}
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if resp, ok := m.Responses[key]; ok {
		return resp, nil
	}

	return nil, &models.APIError{
		StatusCode: http.StatusNotFound,
		Message:    "no mock response for " + key,
	}
}

// SetCredential sets the session cookie.
func (m *MockTransport) SetCredential(cookie string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = cookie
}

// Credential returns the session cookie.
func (m *MockTransport) Credential() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential
}

// Install adds a named interceptor.
func (m *MockTransport) Install(name string, ic Interceptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, err := installEntry(m.interceptors, name, ic)
	if err != nil {
		return err
	}
	m.interceptors = entries
	return nil
}

// Uninstall removes a named interceptor.
func (m *MockTransport) Uninstall(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interceptors = uninstallEntry(m.interceptors, name)
}

// Installed reports whether a named interceptor is present.
func (m *MockTransport) Installed(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.interceptors {
		if e.name == name {
			return true
		}
	}
	return false
}

// RequestPaths returns "METHOD path" for every tracked request.
func (m *MockTransport) RequestPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, len(m.Requests))
	for i, r := range m.Requests {
		paths[i] = r.Method + " " + r.Path
	}
	return paths
}

// Close is a no-op.
func (m *MockTransport) Close() error { return nil }

var _ Transport = (*MockTransport)(nil)
