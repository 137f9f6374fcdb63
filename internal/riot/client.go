package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	defaultMaxInFlight = 10
	maxRetries         = 3
	baseBackoff        = 1 * time.Second
	maxBackoff         = 30 * time.Second
)

// Client is a Riot Games API client. It is the single choke point for all
// outbound calls: a shared semaphore caps in-flight requests at MaxInFlight
// across every caller, a rate limiter paces dispatch, and 429/5xx responses
// are retried with exponential backoff.
type Client struct {
	apiKey     string
	httpClient *http.Client

	regionalBaseURL string
	platformBaseURL string

	gate    *semaphore.Weighted
	limiter *rate.Limiter

	baseBackoff time.Duration
	maxBackoff  time.Duration

	champions championIndex
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	// Region is the regional routing value (americas, asia, europe).
	Region string
	// Platform is the platform routing value (na1, kr, euw1, ...).
	Platform string
	// MaxInFlight caps concurrent outbound requests. Default 10.
	MaxInFlight int64
	// HTTPClient overrides the default client, used by tests.
	HTTPClient *http.Client
	// BaseURL overrides both routing hosts, used by tests.
	BaseURL string
}

// NewClient creates a new Riot API client.
func NewClient(apiKey string, opts Options) *Client {
	if opts.Region == "" {
		opts.Region = "americas"
	}
	if opts.Platform == "" {
		opts.Platform = "na1"
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = defaultMaxInFlight
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	c := &Client{
		apiKey:          apiKey,
		httpClient:      httpClient,
		regionalBaseURL: fmt.Sprintf("https://%s.api.riotgames.com", opts.Region),
		platformBaseURL: fmt.Sprintf("https://%s.api.riotgames.com", opts.Platform),
		gate:            semaphore.NewWeighted(opts.MaxInFlight),
		// ~20 requests per second, matching the dev key burst limit.
		limiter:     rate.NewLimiter(rate.Every(50*time.Millisecond), 1),
		baseBackoff: baseBackoff,
		maxBackoff:  maxBackoff,
	}
	if opts.BaseURL != "" {
		c.regionalBaseURL = opts.BaseURL
		c.platformBaseURL = opts.BaseURL
	}
	return c
}

// get performs a GET request and decodes the JSON response into result.
// Every request passes through the concurrency gate and the pacer; 429 and
// 5xx are retried with capped exponential backoff, honoring Retry-After.
func (c *Client) get(ctx context.Context, url string, result interface{}) error {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.gate.Release(1)

	backoff := c.baseBackoff
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(jitter(backoff)):
			}
			if backoff *= 2; backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", ErrTransient, err)
			continue
		}

		retry, err := handleResponse(resp, result)
		if !retry {
			return err
		}
		lastErr = err

		// Retry-After overrides the computed backoff for the next attempt.
		if wait := retryAfter(resp.Header); wait > 0 {
			backoff = wait
		}
	}

	return lastErr
}

// handleResponse classifies a response. The bool reports whether the
// request should be retried.
func handleResponse(resp *http.Response, result interface{}) (bool, error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return false, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		slog.Debug("Rate limited by Riot API", "url", resp.Request.URL.Path)
		return true, ErrRateLimited
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return true, fmt.Errorf("%w: status %d, body: %s", ErrTransient, resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return false, fmt.Errorf("%w: status %d, body: %s", ErrMalformedResponse, resp.StatusCode, string(body))
	}
}

// retryAfter parses the Retry-After header, in whole seconds.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// jitter spreads retries out by up to a quarter of the delay, keeping
// consecutive backoffs strictly increasing.
func jitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Int63n(int64(d/4)+1))
}
