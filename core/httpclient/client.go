package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Request describes one JSON call relative to the client's base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is marshalled to JSON when non-nil.
	Body any
	// Idempotent marks a POST as safe to send again after an ambiguous failure.
	// GET, HEAD, PUT, DELETE and OPTIONS are always idempotent.
	Idempotent bool
}

func (r Request) idempotent() bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}
	return r.Idempotent
}

// Client performs JSON requests against one remote API with bearer authentication,
// per-request timeouts, pacing, bounded retries and a circuit breaker.
// It is safe for sequential use by one run; it holds no per-run state.
type Client struct {
	name       string
	baseURL    *url.URL
	token      string
	http       *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// New creates a client from the configuration.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url for %s: %w", cfg.Name, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url for %s: %q has no scheme or host", cfg.Name, cfg.BaseURL)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	c := &Client{
		name:       cfg.Name,
		baseURL:    base,
		token:      cfg.Token,
		http:       &http.Client{Transport: transport, Timeout: timeoutDuration},
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		logger:     logger.With(zap.String("remote", cfg.Name)),
		sleep:      sleepContext,
	}

	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	if cfg.BreakerFailures > 0 {
		c.breaker = newBreaker(cfg, c.logger)
	}

	return c, nil
}

func newBreaker(cfg Config, logger *zap.Logger) *gobreaker.CircuitBreaker {
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = defaultBreakerCooldown
	}

	threshold := cfg.BreakerFailures
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// Client errors say nothing about the health of the remote service.
		IsSuccessful: func(err error) bool {
			return err == nil || !isTransient(err)
		},
	})
}

// Do executes the request and decodes a JSON response into out when out is non-nil.
// Transient failures (transport errors, 429, 5xx) are retried up to MaxRetries times
// with exponential backoff; the last error is returned when retries are exhausted.
// A non-idempotent request is only retried when the server cannot have applied it.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = b
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay(attempt, lastErr)
			c.logger.Debug("Retrying request",
				zap.String("method", req.Method),
				zap.String("path", req.Path),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			if err := c.sleep(ctx, delay); err != nil {
				return lastErr
			}
		}

		body, err := c.execute(ctx, req, payload)
		if err == nil {
			return decode(body, out)
		}

		lastErr = err
		if !shouldRetry(req, err) || ctx.Err() != nil {
			return err
		}
	}

	return lastErr
}

// execute performs one attempt through the limiter and the circuit breaker.
func (c *Client) execute(ctx context.Context, req Request, payload []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if c.breaker == nil {
		return c.roundTrip(ctx, req, payload)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, req, payload)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) roundTrip(ctx context.Context, req Request, payload []byte) ([]byte, error) {
	target := c.resolve(req.Path, req.Query)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &retryAfterError{
			StatusError: &StatusError{
				Method:     req.Method,
				URL:        target,
				StatusCode: resp.StatusCode,
				Body:       strings.TrimSpace(string(body)),
			},
			after: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	return body, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if path == "" {
		u.Path = c.baseURL.Path
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) retryDelay(attempt int, lastErr error) time.Duration {
	var ra *retryAfterError
	if errors.As(lastErr, &ra) && ra.after > 0 {
		return ra.after
	}

	delay := c.backoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// retryAfterError carries the server-requested delay alongside the status error.
type retryAfterError struct {
	*StatusError
	after time.Duration
}

func (e *retryAfterError) Unwrap() error {
	return e.StatusError
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// shouldRetry reports whether a failed attempt may be sent again. A non-idempotent
// request is repeated only after a 429 or a connection that was never established.
func shouldRetry(req Request, err error) bool {
	if !isTransient(err) {
		return false
	}
	if req.idempotent() {
		return true
	}
	return IsStatus(err, http.StatusTooManyRequests) || isDialError(err)
}

func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// isTransient reports whether err is worth retrying.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// A per-request timeout surfaces as a url.Error; a cancelled run does not.
		var urlErr *url.Error
		return errors.As(err, &urlErr) && urlErr.Timeout()
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
