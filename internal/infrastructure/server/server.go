package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/TableScan/internal/api/http"
	"github.com/GriffinCanCode/TableScan/internal/api/middleware"
	"github.com/GriffinCanCode/TableScan/internal/fetch"
	"github.com/GriffinCanCode/TableScan/internal/infrastructure/config"
	"github.com/GriffinCanCode/TableScan/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TableScan/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TableScan/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/TableScan/internal/markup"
	"github.com/GriffinCanCode/TableScan/internal/scan"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	fetcher *fetch.Client
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger := logging.NewOrDefault(logging.ConfigFor(cfg.Logging.Level, cfg.Logging.Development))

	logger.Info("Initializing TableScan server",
		zap.String("port", cfg.Server.Port),
		zap.String("collector", cfg.Scan.Collector),
		zap.Bool("sanitize", cfg.Scan.Sanitize),
	)

	collector, err := scan.CollectorFor(cfg.Scan.Collector)
	if err != nil {
		return nil, fmt.Errorf("invalid scan configuration: %w", err)
	}

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("tablescan", logger.Logger)

	fetcher := fetch.New(fetch.Config{
		Timeout:   cfg.Fetch.Timeout,
		Retries:   cfg.Fetch.Retries,
		RetryWait: cfg.Fetch.RetryWait,
		UserAgent: cfg.Fetch.UserAgent,
		MaxBytes:  cfg.Fetch.MaxBytes,
		RPS:       cfg.Fetch.RPS,
	}, logger.Named("fetch").Logger)

	parserOpts := []markup.Option{markup.WithMaxSize(int(cfg.Fetch.MaxBytes))}
	if cfg.Scan.Sanitize {
		parserOpts = append(parserOpts, markup.WithSanitizer())
	}
	parser := markup.NewParser(parserOpts...)

	scanner := scan.NewScanner(fetcher, parser,
		scan.WithCollector(collector),
		scan.WithObserver(metrics),
		scan.WithLogger(logger.Named("scan").Logger),
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := api.NewHandlers(scanner, fetcher, metrics, tracer, logger.Logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.POST("/scan-url", handlers.ScanURL)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s := &Server{
		router:  router,
		fetcher: fetcher,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}
	s.http = &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: s.Handler(),
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// Handler returns the routed, gzip-compressing handler
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run starts the HTTP server and blocks until it stops. A graceful
// shutdown is not an error.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight scans until ctx
// is done, then flushes spans and logs.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		err = fmt.Errorf("failed to shut down http server: %w", err)
	}

	s.tracer.Close()
	_ = s.logger.Sync()
	return err
}

// Close shuts down within the configured shutdown timeout
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}
