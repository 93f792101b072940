// Package client implements the HTTP client for the NAS Cloud API.
//
// All failures are converted at this boundary into one of three kinds:
// ErrUnauthorized for rejected sessions, *APIError for terminal server
// answers, and transient (retried) errors for transport failures and 5xx
// responses. Nothing above this package inspects HTTP status codes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TheGhoul27/NAS-Cloud/internal/logging"
	"github.com/TheGhoul27/NAS-Cloud/internal/metrics"
	"github.com/TheGhoul27/NAS-Cloud/pkg/protocol"
	"github.com/TheGhoul27/NAS-Cloud/pkg/retry"
)

// ErrUnauthorized is returned when the server rejects the session. Callers
// clear the saved session and prompt for a fresh login; the error is never
// retried.
var ErrUnauthorized = errors.New("unauthorized: session expired or invalid")

// ErrQueryTooShort is returned before any network call when a search query
// has fewer than two characters.
var ErrQueryTooShort = errors.New("search query must be at least 2 characters")

// ErrInvalidFolderName is returned before any network call when a folder
// name is empty or contains a path separator.
var ErrInvalidFolderName = errors.New("invalid folder name")

// APIError is a terminal answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// AsAPIError checks if an error is an APIError and returns it.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Client provides the typed HTTP client with retry and auth.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy

	mu        sync.RWMutex
	online    bool
	authToken string
}

// Config holds client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Retry     retry.Policy
	AuthToken string
}

// New creates a new client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		policy:    cfg.Retry,
		online:    true,
		authToken: cfg.AuthToken,
	}
}

// SetAuthToken sets the bearer token for subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

// ClearAuthToken drops the bearer token, e.g. after a 401.
func (c *Client) ClearAuthToken() {
	c.SetAuthToken("")
}

func (c *Client) applyAuth(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// IsOnline returns true if the last request reached the server.
func (c *Client) IsOnline() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.online
}

func (c *Client) setOnline(online bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.online != online {
		if online {
			logging.Info("server is back online")
		} else {
			logging.Warn("server is unreachable")
		}
	}
	c.online = online
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setOnline(false)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.setOnline(false)
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	c.setOnline(true)
	return nil
}

// errorFromResponse converts a non-2xx response into the client's error
// taxonomy. The caller still owns the response body.
func (c *Client) errorFromResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var body protocol.ErrorResponse
	if json.NewDecoder(resp.Body).Decode(&body) == nil {
		apiErr.Message = body.Error
	}

	if resp.StatusCode >= 500 {
		return retry.Transient(apiErr)
	}
	return apiErr
}

// doJSON issues one API operation with retry, decoding a JSON response into
// out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	start := time.Now()
	err := retry.Do(ctx, c.policy, func() error {
		var reader *bytes.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		var req *http.Request
		var err error
		if reader != nil {
			req, err = http.NewRequestWithContext(ctx, method, u, reader)
		} else {
			req, err = http.NewRequestWithContext(ctx, method, u, nil)
		}
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.setOnline(false)
			return retry.Transient(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			c.setOnline(resp.StatusCode < 500)
			return c.errorFromResponse(resp)
		}

		c.setOnline(true)
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("%s: parse response: %w", op, err)
			}
		}
		return nil
	})

	metrics.RecordAPIRequest(op, resultLabel(err), time.Since(start))
	if err != nil {
		logging.Debug("api request failed",
			zap.String("operation", op),
			zap.Error(err),
		)
	}
	return err
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}

// escapePath percent-escapes each segment of a slash-delimited path while
// keeping the separators.
func escapePath(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
