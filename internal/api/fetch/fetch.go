// Package fetch is the retrying HTTP layer every provider client goes
// through. A call yields one fully decoded JSON document or an error; there
// is no partial-success concept.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/omarshaarawi/statbot/internal/config"
	"github.com/omarshaarawi/statbot/internal/errs"
	"github.com/omarshaarawi/statbot/internal/metrics"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) statbot/1.0"

// SleepFunc waits for d or returns early with the context's error. Injected
// in tests so retries do not wall-clock sleep.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Client struct {
	httpClient *http.Client
	maxRetries int
	backoffCap time.Duration
	sleep      SleepFunc
}

func NewClient(cfg config.Engine) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		maxRetries: cfg.MaxRetries,
		backoffCap: cfg.BackoffCap,
		sleep:      sleepWithContext,
	}
}

// WithSleep replaces the backoff wait. Test hook.
func (c *Client) WithSleep(sleep SleepFunc) *Client {
	c.sleep = sleep
	return c
}

// GetJSON performs an HTTP GET with bounded retries and exponential backoff.
// The delay before attempt k+1 is min(2^k, cap). On exhaustion the last
// underlying error is returned, marked as a fetch error.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params, headers map[string]string, result any) error {
	host := hostLabel(rawURL)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		metrics.FetchRequests.WithLabelValues(host).Inc()

		err := c.doOnce(ctx, rawURL, params, headers, result)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == c.maxRetries {
			break
		}

		metrics.FetchRetries.WithLabelValues(host).Inc()
		backoff := min(time.Duration(1<<attempt)*time.Second, c.backoffCap)
		if err := c.sleep(ctx, backoff); err != nil {
			return err
		}
	}

	metrics.FetchFailures.WithLabelValues(host).Inc()
	slog.Error("Provider request failed", "url", rawURL, "error", lastErr)
	return errs.Fetch(lastErr)
}

func (c *Client) doOnce(ctx context.Context, rawURL string, params, headers map[string]string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	for key, value := range params {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func hostLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
