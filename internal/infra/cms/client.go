// Package cms is a client for a headless content service exposing a
// delivery-style REST API (spaces, environments, entries with linked
// includes).
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client fetches entries from the content service.
// A Client is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client. It returns ErrNotConfigured when credentials
// are missing, which callers treat as "use bundled data".
// A nil httpClient gets one with cfg.HTTPTimeout.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}, nil
}

// Preview reports whether the client reads draft content.
func (c *Client) Preview() bool {
	return c.cfg.Preview
}

// Entries fetches one page of entries and resolves included links.
func (c *Client) Entries(ctx context.Context, q Query) (*Collection, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.cfg.baseURL(), c.cfg.SpaceID, c.cfg.Environment, q.Values().Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.token())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > c.cfg.MaxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, c.cfg.MaxBodySize)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp, body)
	}

	var col Collection
	if err := json.Unmarshal(body, &col); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	col.ResolveLinks()

	slog.Debug("content service entries fetched",
		slog.String("content_type", q.ContentType),
		slog.Int("items", len(col.Items)),
		slog.Int("total", col.Total),
		slog.Bool("preview", c.cfg.Preview),
		slog.Duration("duration", time.Since(start)))
	return &col, nil
}

// apiErrorBody is the error document of the service.
type apiErrorBody struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
		apiErr.RequestID = parsed.RequestID
	}
	if apiErr.RequestID == "" {
		apiErr.RequestID = resp.Header.Get("X-Contentful-Request-Id")
	}
	return apiErr
}
