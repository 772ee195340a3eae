package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/http2"

	"github.com/SkynetHQ/skynet-mysky/internal/events"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

// SessionCookieName is the portal's JWT session cookie.
const SessionCookieName = "skynet-jwt"

// HTTPClient handles HTTP communication with the portal.
type HTTPClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
	logger    *events.Logger

	mu           sync.Mutex
	credential   string
	interceptors []interceptorEntry

	maxRetries int
	retryDelay time.Duration
}

// ClientConfig carries the transport settings.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
}

// NewHTTPClient creates an HTTP client for the portal.
func NewHTTPClient(cfg ClientConfig, logger *events.Logger) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			NextProtos: []string{"h2", "http/1.1"},
		},
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		logger.WithError(err).Warn("Failed to configure HTTP/2")
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Second,
		logger:     logger.WithField("component", "http_client"),
	}
}

// SetCredential sets the session cookie value.
func (c *HTTPClient) SetCredential(cookie string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credential = cookie
}

// Credential returns the current session cookie value.
func (c *HTTPClient) Credential() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.credential
}

// Install adds a named interceptor. Installing under an existing name
// fails with models.ErrAlreadyConfigured.
func (c *HTTPClient) Install(name string, ic Interceptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := installEntry(c.interceptors, name, ic)
	if err != nil {
		return err
	}
	c.interceptors = entries
	return nil
}

// Uninstall removes a named interceptor.
func (c *HTTPClient) Uninstall(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interceptors = uninstallEntry(c.interceptors, name)
}

// Do executes a request through the interceptor chain.
func (c *HTTPClient) Do(ctx context.Context, req *Request) (*Result, error) {
	c.mu.Lock()
	entries := make([]interceptorEntry, len(c.interceptors))
	copy(entries, c.interceptors)
	c.mu.Unlock()

	return buildChain(entries, c.execute)(ctx, req)
}

// execute performs one request with the retry policy. 401 is never retried
// here; expiry recovery belongs to the relogin interceptor.
func (c *HTTPClient) execute(ctx context.Context, req *Request) (*Result, error) {
	var body []byte
	if req.Payload != nil {
		var err error
		body, err = json.Marshal(req.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
	}

	url := c.baseURL + req.Path
	if len(req.Query) > 0 {
		url += "?" + req.Query.Encode()
	}

	c.logger.WithFields(map[string]interface{}{
		"method": req.Method,
		"url":    url,
		"size":   len(body),
	}).Debug("Sending request")

	var result *Result
	err := c.retry(ctx, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		httpReq.Header.Set("Accept", "application/json")
		httpReq.Header.Set("User-Agent", c.userAgent)
		if cred := c.Credential(); cred != "" {
			httpReq.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cred})
		}

		resp, err := c.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if c.isRetryable(resp.StatusCode) {
			return fmt.Errorf("server error %d: %s", resp.StatusCode, respBody)
		}

		result = &Result{
			StatusCode: resp.StatusCode,
			Cookies:    resp.Cookies(),
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &models.APIError{StatusCode: resp.StatusCode}
			if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
				apiErr.Message = string(respBody)
			}
			return &permanentError{err: apiErr}
		}

		if len(respBody) > 0 {
			if err := json.Unmarshal(respBody, &result.Body); err != nil {
				return &permanentError{err: fmt.Errorf("parse response: %w", err)}
			}
		}

		return nil
	})
	if err != nil {
		var perm *permanentError
		if errors.As(err, &perm) {
			return result, perm.err
		}
		return nil, err
	}

	c.logger.WithField("status", result.StatusCode).Debug("Received response")
	return result, nil
}

// retry executes a function with exponential backoff.
func (c *HTTPClient) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(map[string]interface{}{
				"attempt": attempt,
				"delay":   delay,
			}).Debug("Retrying request")

			select {
			case <-time.After(delay):
				delay *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			return err
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable checks if an HTTP status code is retryable.
func (c *HTTPClient) isRetryable(status int) bool {
	return status == http.StatusTooManyRequests ||
		(status >= 500 && status < 600)
}

// Close releases idle connections.
func (c *HTTPClient) Close() {
	c.client.CloseIdleConnections()
}

// permanentError marks an error the retry loop must not retry.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }
