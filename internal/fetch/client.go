package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GriffinCanCode/TableScan/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/TableScan/internal/infrastructure/tracing"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrUnsupportedURL = errors.New("unsupported url")
	ErrStatus         = errors.New("unexpected status")
	ErrTooLarge       = errors.New("response body too large")
)

// StatusError is returned for a non-2xx response and matches ErrStatus.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrStatus, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Config controls the page client.
type Config struct {
	Timeout time.Duration
	// Retries is how many extra attempts a 5xx, 429 or transport error gets
	Retries int
	// RetryWait is the first backoff; later waits double up to 5s
	RetryWait time.Duration
	UserAgent string
	MaxBytes  int64
	// RPS caps outbound requests per second; zero means unlimited
	RPS float64
}

// DefaultConfig returns the client defaults
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		Retries:   0,
		RetryWait: 500 * time.Millisecond,
		UserAgent: "TableScan/1.0",
		MaxBytes:  10 * 1024 * 1024,
	}
}

// Client fetches pages with rate limiting and per-host circuit breakers.
type Client struct {
	resty    *resty.Client
	limiter  *rate.Limiter
	hosts    *resilience.Group
	maxBytes int64
	logger   *zap.Logger
}

// New creates a client from cfg
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = DefaultConfig().RetryWait
	}

	// retryablehttp owns retries; the passthrough handler hands the last
	// 5xx back so it surfaces as a StatusError instead of "giving up"
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = max(cfg.Retries, 0)
	retryClient.RetryWaitMin = retryWait
	retryClient.RetryWaitMax = max(retryWait, 5*time.Second)
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(cfg.Timeout).
		SetDoNotParseResponse(true)
	if cfg.UserAgent != "" {
		restyClient.SetHeader("User-Agent", cfg.UserAgent)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultConfig().MaxBytes
	}

	c := &Client{
		resty:    restyClient,
		limiter:  limiter,
		maxBytes: maxBytes,
		logger:   logger,
	}
	c.hosts = resilience.NewGroup(resilience.Settings{
		HalfOpenRequests: 1,
		Window:           60 * time.Second,
		Cooldown:         30 * time.Second,
		ShouldTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 10 ||
				(counts.Requests >= 20 && counts.FailureRatio() > 0.7)
		},
		IsFailure: isHostFailure,
		OnStateChange: func(host string, from, to resilience.State) {
			c.logger.Warn("host breaker state changed",
				zap.String("host", host),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

// Fetch returns the body of a successful GET of rawURL
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	start := time.Now()
	var body []byte
	headers := make(map[string]string, 2)
	tracing.InjectTraceContext(ctx, headers)

	err = c.hosts.Execute(target.Host, func() error {
		resp, err := c.resty.R().
			SetContext(ctx).
			SetHeaders(headers).
			Get(target.String())
		if err != nil {
			return err
		}
		raw := resp.RawBody()
		if raw != nil {
			defer raw.Close()
		}
		if !resp.IsSuccess() {
			return &StatusError{Code: resp.StatusCode()}
		}
		body, err = readLimited(raw, c.maxBytes)
		return err
	})
	if err != nil {
		c.logger.Debug("fetch failed",
			zap.String("url", rawURL),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug("fetch completed",
		zap.String("url", rawURL),
		zap.Int("bytes", len(body)),
		zap.String("mime", mimetype.Detect(body).String()),
		zap.Duration("duration", time.Since(start)),
	)
	return body, nil
}

// BreakerStates returns the breaker state of every host fetched so far
func (c *Client) BreakerStates() map[string]string {
	states := make(map[string]string)
	for host, state := range c.hosts.States() {
		states[host] = state.String()
	}
	return states
}

// isHostFailure reports whether err says the host is unhealthy. Client
// errors and oversized pages are the caller's problem, as is cancellation.
func isHostFailure(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError ||
			statusErr.Code == http.StatusTooManyRequests
	}
	return !errors.Is(err, ErrTooLarge) && !errors.Is(err, context.Canceled)
}

func validateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrUnsupportedURL)
	}
	return u, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}
