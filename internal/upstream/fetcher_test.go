package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener-api/internal/observability"
)

func TestHTTPFetcher_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	m := observability.NewMetrics("test")
	f := NewHTTPFetcher(WithMetrics(m))

	body, err := f.Fetch(context.Background(), Request{Provider: "p", Endpoint: "e", URL: server.URL})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("p", "e", "ok")))
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer server.Close()

	m := observability.NewMetrics("test")
	f := NewHTTPFetcher(WithMetrics(m))

	_, err := f.Fetch(context.Background(), Request{Provider: "coingecko", Endpoint: "markets", URL: server.URL})
	require.Error(t, err)

	se, ok := IsStatus(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, "slow down", se.Body)
	assert.Contains(t, err.Error(), "http 429")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("coingecko", "markets", "status")))
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f := NewHTTPFetcher(WithTimeout(50 * time.Millisecond))

	start := time.Now()
	_, err := f.Fetch(context.Background(), Request{Provider: "p", Endpoint: "slow", URL: server.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 2*time.Second)

	_, isStatus := IsStatus(err)
	assert.False(t, isStatus)
}

func TestHTTPFetcher_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := NewHTTPFetcher()
	_, err := f.Fetch(context.Background(), Request{Provider: "p", Endpoint: "gone", URL: url})
	require.Error(t, err)
	_, isStatus := IsStatus(err)
	assert.False(t, isStatus)
}
