package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TableScan/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/TableScan/internal/infrastructure/tracing"
)

func newClient(cfg Config) *Client {
	return New(cfg, zap.NewNop())
}

func hostOf(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Host
}

func TestFetchReturnsBody(t *testing.T) {
	agents := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.UserAgent()
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<table></table>")
	}))
	defer server.Close()

	body, err := newClient(DefaultConfig()).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<table></table>", string(body))
	assert.Equal(t, "TableScan/1.0", <-agents)
}

func TestFetchRejectsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newClient(DefaultConfig()).Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "404")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

// flakyServer answers 503 for the first failures hits and 200 afterwards.
func flakyServer(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	hits := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "<table></table>")
	}))
	t.Cleanup(server.Close)
	return server, hits
}

func TestFetchRetriesServerErrors(t *testing.T) {
	tests := []struct {
		name     string
		failures int32
		retries  int
		wantErr  bool
		wantHits int32
	}{
		{name: "recovers after one 503", failures: 1, retries: 1, wantHits: 2},
		{name: "recovers within budget", failures: 2, retries: 3, wantHits: 3},
		{name: "no retries surfaces 503", failures: 1, retries: 0, wantErr: true, wantHits: 1},
		{name: "exhausted retries surface 503", failures: 5, retries: 2, wantErr: true, wantHits: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := flakyServer(t, tt.failures)

			cfg := DefaultConfig()
			cfg.Retries = tt.retries
			cfg.RetryWait = time.Millisecond
			body, err := newClient(cfg).Fetch(context.Background(), server.URL)

			if tt.wantErr {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "<table></table>", string(body))
			}
			assert.Equal(t, tt.wantHits, hits.Load())
		})
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Retries = 3
	cfg.RetryWait = time.Millisecond
	_, err := newClient(cfg).Fetch(context.Background(), server.URL)

	assert.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchRejectsUnsupportedURLs(t *testing.T) {
	client := newClient(DefaultConfig())

	for _, raw := range []string{"ftp://example.com/file", "example.com", "http://", "://bad", ""} {
		t.Run(raw, func(t *testing.T) {
			_, err := client.Fetch(context.Background(), raw)
			assert.ErrorIs(t, err, ErrUnsupportedURL)
		})
	}
}

func TestFetchEnforcesBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("x", 100))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.MaxBytes = 16
	_, err := newClient(cfg).Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrTooLarge)

	cfg.MaxBytes = 100
	body, err := newClient(cfg).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, body, 100)
}

func TestFetchHonoursCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(DefaultConfig()).Fetch(ctx, server.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchOpensBreakerPerHost(t *testing.T) {
	var hits atomic.Int32
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer healthy.Close()

	client := newClient(DefaultConfig())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := client.Fetch(ctx, failing.URL)
		require.ErrorIs(t, err, ErrStatus)
	}

	_, err := client.Fetch(ctx, failing.URL)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(10), hits.Load())

	_, err = client.Fetch(ctx, healthy.URL)
	require.NoError(t, err)

	states := client.BreakerStates()
	assert.Equal(t, "open", states[hostOf(t, failing.URL)])
	assert.Equal(t, "closed", states[hostOf(t, healthy.URL)])
}

func TestFetchClientErrorsKeepBreakerClosed(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newClient(DefaultConfig())
	for i := 0; i < 25; i++ {
		_, err := client.Fetch(context.Background(), server.URL)
		require.ErrorIs(t, err, ErrStatus)
	}

	assert.Equal(t, int32(25), hits.Load())
	assert.Equal(t, "closed", client.BreakerStates()[hostOf(t, server.URL)])
}

func TestFetchPropagatesTraceContext(t *testing.T) {
	type seen struct{ trace, span string }
	headers := make(chan seen, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- seen{r.Header.Get(tracing.HeaderTraceID), r.Header.Get(tracing.HeaderSpanID)}
		_, _ = io.WriteString(w, "ok")
	}))
	defer server.Close()

	tracer := tracing.New("test", zap.NewNop())
	defer tracer.Close()
	span, ctx := tracer.StartSpan(context.Background(), "scan")

	_, err := newClient(DefaultConfig()).Fetch(ctx, server.URL)
	require.NoError(t, err)

	got := <-headers
	assert.Equal(t, string(span.TraceID), got.trace)
	assert.Equal(t, string(span.SpanID), got.span)
}

func TestIsHostFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", &StatusError{Code: http.StatusBadGateway}, true},
		{"throttled", &StatusError{Code: http.StatusTooManyRequests}, true},
		{"not found", &StatusError{Code: http.StatusNotFound}, false},
		{"wrapped client error", fmt.Errorf("scan: %w", &StatusError{Code: http.StatusForbidden}), false},
		{"oversized page", fmt.Errorf("%w: limit 1 bytes", ErrTooLarge), false},
		{"cancelled", context.Canceled, false},
		{"transport", errors.New("connection refused"), true},
		{"timeout", context.DeadlineExceeded, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHostFailure(tt.err))
		})
	}
}

func TestValidateURLTrimsSpace(t *testing.T) {
	u, err := validateURL("  https://example.com/a  ")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
}
