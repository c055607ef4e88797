package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RateLimitError represents a 429 answer from a webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a non-retryable 4xx answer.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string { return e.Message }

// ServerError represents a retryable 5xx answer.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string { return e.Message }

const maxAttempts = 2

// webhook posts JSON payloads with rate limiting and one retry.
type webhook struct {
	service    string
	url        string
	client     *http.Client
	limiter    *RateLimiter
	retryDelay time.Duration
	logger     *slog.Logger
}

func (w *webhook) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    w.service + " rate limit exceeded",
			RetryAfter: retryAfter(resp, respBody),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s server error: %s", w.service, respBody),
		}
	default:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s client error: %s", w.service, respBody),
		}
	}
}

// send waits for the limiter, then posts the payload. Rate limits honour the
// advertised delay; server and network errors are retried after retryDelay;
// client errors fail immediately.
func (w *webhook) send(ctx context.Context, payload any) error {
	if err := w.limiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := w.post(ctx, payload)
		if err == nil {
			w.logger.Info("alert delivered",
				slog.String("service", w.service),
				slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		var clientErr *ClientError
		if errors.As(err, &clientErr) {
			w.logger.Error("alert rejected",
				slog.String("service", w.service),
				slog.Int("status", clientErr.StatusCode),
				slog.Any("error", err))
			return err
		}
		if attempt == maxAttempts {
			break
		}

		delay := w.retryDelay * time.Duration(attempt)
		var rateErr *RateLimitError
		if errors.As(err, &rateErr) {
			delay = rateErr.RetryAfter
		}
		w.logger.Warn("alert delivery failed, retrying",
			slog.String("service", w.service),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
		}
	}
	return fmt.Errorf("%s alert failed after %d attempts: %w", w.service, maxAttempts, lastErr)
}

// retryAfter reads Discord's JSON retry_after or the Retry-After header.
// Default: 5s
func retryAfter(resp *http.Response, body []byte) time.Duration {
	var parsed struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.RetryAfter > 0 {
		return time.Duration(parsed.RetryAfter * float64(time.Second))
	}
	if h := resp.Header.Get("Retry-After"); h != "" {
		if seconds, err := strconv.Atoi(h); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 5 * time.Second
}

func truncate(text string, maxLength int) string {
	const suffix = "..."
	if len(text) <= maxLength {
		return text
	}
	cut := maxLength - len(suffix)
	if cut < 0 {
		cut = 0
	}
	return text[:cut] + suffix
}
