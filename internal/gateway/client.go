// Package gateway is the typed HTTP client for the natural-language query
// backend. It classifies transport failures into user-facing messages and
// degrades the non-critical endpoints (examples, stats) to built-in
// fallback data instead of surfacing errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wealthlens-labs/wealthlens/internal/contract"
)

const (
	// DefaultTimeout bounds the health/examples/stats calls.
	DefaultTimeout = 30 * time.Second
	// DefaultQueryTimeout bounds the query call. NL resolution is slow,
	// so it gets a longer timeout than the housekeeping endpoints.
	DefaultQueryTimeout = 60 * time.Second
	// DefaultUserID is sent when no user is configured.
	DefaultUserID = "default_user"
)

// Client talks to the query backend. Safe for concurrent use.
type Client struct {
	baseURL      string
	userID       string
	httpClient   *http.Client
	queryTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the transport timeout for non-query calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithQueryTimeout sets the transport timeout for the query call.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Client) { c.queryTimeout = d }
}

// WithUserID sets the user_id sent with query requests.
func WithUserID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.userID = id
		}
	}
}

// WithHTTPClient injects the underlying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// withClock overrides the result timestamp source in tests.
func withClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a gateway client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		userID:       DefaultUserID,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		queryTimeout: DefaultQueryTimeout,
		logger:       slog.New(slog.DiscardHandler),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks GET /health. Any status other than "healthy" or any
// transport failure reports the backend as unavailable.
func (c *Client) Health(ctx context.Context) error {
	var resp contract.HealthResponse
	if err := c.getJSON(ctx, "/health", &resp); err != nil {
		return err
	}
	if resp.Status != "healthy" {
		return &Error{
			Kind:    KindUnreachable,
			Message: msgUnreachable,
			Err:     fmt.Errorf("backend reported status %q", resp.Status),
		}
	}
	return nil
}

// Query submits a natural-language question and returns the normalized
// result bundle.
func (c *Client) Query(ctx context.Context, query string) (contract.QueryResult, error) {
	body, err := json.Marshal(contract.QueryRequest{Query: query, UserID: c.userID})
	if err != nil {
		return contract.QueryResult{}, fmt.Errorf("encoding query request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	started := c.now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/query", bytes.NewReader(body))
	if err != nil {
		return contract.QueryResult{}, fmt.Errorf("building query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return contract.QueryResult{}, classifyTransport(err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return contract.QueryResult{}, classifyStatus(httpResp.StatusCode)
	}

	var resp contract.QueryResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return contract.QueryResult{}, &Error{
			Kind:    KindServerError,
			Message: msgServerError,
			Err:     fmt.Errorf("decoding query response: %w", err),
		}
	}

	if !resp.Success {
		return contract.QueryResult{}, appError(resp.ErrorMessage)
	}

	c.logger.Debug("query resolved",
		"elapsed", c.now().Sub(started).Round(time.Millisecond),
		"has_table", resp.TableData != nil,
		"has_chart", resp.ChartData != nil)

	return contract.NormalizeResult(resp, c.now()), nil
}

// Examples fetches the suggested query categories.
func (c *Client) Examples(ctx context.Context) ([]contract.ExampleCategory, error) {
	var resp contract.ExamplesResponse
	if err := c.getJSON(ctx, "/api/v1/query/examples", &resp); err != nil {
		return nil, err
	}
	if !resp.Success || len(resp.Examples) == 0 {
		return nil, appError("backend returned no example queries")
	}
	return resp.Examples, nil
}

// Stats fetches the backend's display statistics.
func (c *Client) Stats(ctx context.Context) (contract.StatsSnapshot, error) {
	var resp contract.StatsResponse
	if err := c.getJSON(ctx, "/api/v1/query/stats", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, appError("backend could not compute stats")
	}
	return resp.Stats, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return classifyStatus(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Kind:    KindServerError,
			Message: msgServerError,
			Err:     fmt.Errorf("decoding response from %s: %w", path, err),
		}
	}
	return nil
}
