// Package upstream issues GET requests against market-data providers.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"screener-api/internal/observability"
)

const (
	DefaultTimeout = 5 * time.Second
	maxBodyBytes   = 8 << 20
	maxErrBody     = 512
)

// Request describes one provider call. Provider and Endpoint label logs,
// metrics and cache entries. TTL is the cache lifetime hint; zero disables caching.
type Request struct {
	Provider string
	Endpoint string
	URL      string
	TTL      time.Duration
}

// Fetcher returns the body of a successful (2xx) GET.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// StatusError is returned for non-2xx upstream replies.
type StatusError struct {
	Provider   string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: http %d: %s", e.Provider, e.Endpoint, e.StatusCode, e.Body)
}

// IsStatus reports whether err carries an upstream non-2xx status.
func IsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HTTPFetcher implements Fetcher over net/http with a per-call timeout.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// Option configures HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(f *HTTPFetcher) {
		f.logger = l
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(f *HTTPFetcher) {
		f.metrics = m
	}
}

func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:  &http.Client{},
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *HTTPFetcher) Fetch(ctx context.Context, r Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	body, err := f.do(ctx, r)
	elapsed := time.Since(start)

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	default:
		if _, ok := IsStatus(err); ok {
			outcome = "status"
		} else {
			outcome = "error"
		}
	}
	f.metrics.ObserveUpstream(r.Provider, r.Endpoint, outcome, elapsed)
	f.logger.Debug("upstream call",
		zap.String("provider", r.Provider),
		zap.String("endpoint", r.Endpoint),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	)
	return body, err
}

func (f *HTTPFetcher) do(ctx context.Context, r Request) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s %s: build request: %w", r.Provider, r.Endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.Provider, r.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, &StatusError{
			Provider:   r.Provider,
			Endpoint:   r.Endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(b),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", r.Provider, r.Endpoint, err)
	}
	return body, nil
}
