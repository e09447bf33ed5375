package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vibeflo/vibeflo-go/internal/apiurl"
	"github.com/vibeflo/vibeflo-go/internal/credentials"
)

// DefaultTimeout bounds every request round-trip.
const DefaultTimeout = 30 * time.Second

// Config holds Gateway Client construction parameters. The client is
// explicitly constructed and passed around; there is no shared module
// instance.
type Config struct {
	Endpoints   apiurl.Endpoints
	Credentials credentials.Store
	HTTPClient  *http.Client
	Retry       *RetryPolicy

	// OnSessionExpired is invoked once per 401 response, after the
	// stored token has been cleared. Typically wired to a login
	// redirect. Optional.
	OnSessionExpired func()

	Logger *zerolog.Logger
}

// Client is the Gateway Client. All backend calls go through it so
// token attachment, path normalization, and retry behavior are
// uniform.
type Client struct {
	http      *http.Client
	endpoints apiurl.Endpoints
	creds     credentials.Store
	onExpired func()
	retry     RetryPolicy
	metrics   *clientMetrics
	log       zerolog.Logger

	// defaultAuth mirrors the stored token as the default
	// Authorization header. Cleared on 401 so a stale token is never
	// resent.
	mu          sync.RWMutex
	defaultAuth string
}

// NewClient creates a Gateway Client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	creds := cfg.Credentials
	if creds == nil {
		creds = credentials.NewMemory("")
	}
	retry := DefaultRetryPolicy()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	c := &Client{
		http:      httpClient,
		endpoints: cfg.Endpoints,
		creds:     creds,
		onExpired: cfg.OnSessionExpired,
		retry:     retry,
		metrics:   newClientMetrics(),
		log:       logger,
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = func(name string, _ int, _ time.Duration, _ error) {
			c.metrics.recordRetry(context.Background(), name)
		}
	}
	if token := creds.Token(); token != "" {
		c.defaultAuth = "Bearer " + token
	}

	return c
}

// SetToken persists a new bearer token and updates the default
// Authorization header.
func (c *Client) SetToken(token string) {
	c.creds.SetToken(token)
	c.mu.Lock()
	if token == "" {
		c.defaultAuth = ""
	} else {
		c.defaultAuth = "Bearer " + token
	}
	c.mu.Unlock()
}

// ClearToken removes the persisted token and the default Authorization
// header.
func (c *Client) ClearToken() {
	c.creds.Clear()
	c.mu.Lock()
	c.defaultAuth = ""
	c.mu.Unlock()
}

// AuthorizationHeader returns the current default Authorization header
// value, or "" when no token is held.
func (c *Client) AuthorizationHeader() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultAuth
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response
// into out. body and out may each be nil.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response
// into out.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	url := c.endpoints.URL(path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// The token is read fresh from the store for every request, so a
	// login elsewhere in the process takes effect immediately.
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if auth := c.AuthorizationHeader(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.recordRequest(ctx, method, 0)
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	c.metrics.recordRequest(ctx, method, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(url)
		return fmt.Errorf("%w: %w", ErrSessionExpired,
			&APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw), Body: raw})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw), Body: raw}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	// An HTML document on a 2xx means the request was routed to the
	// SPA fallback instead of the API. Recover with an empty result
	// rather than handing HTML to the caller.
	if isHTMLDocument(raw) {
		c.log.Error().
			Str("url", url).
			Msg("Received HTML instead of JSON; returning empty result")
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}

	return nil
}

// handleUnauthorized reacts to a 401: clear the stored token and the
// default header so a stale token is not resent, then notify the host
// application. Fires once per response.
func (c *Client) handleUnauthorized(url string) {
	c.log.Warn().Str("url", url).Msg("Session rejected by server; clearing credentials")
	c.ClearToken()
	if c.onExpired != nil {
		c.onExpired()
	}
}

// isHTMLDocument reports whether the body starts with an HTML document
// marker.
func isHTMLDocument(raw []byte) bool {
	head := strings.ToLower(string(bytes.TrimSpace(raw)))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// errorMessage pulls a human-readable message out of an error body.
func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
