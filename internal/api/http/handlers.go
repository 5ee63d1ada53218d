package http

import (
	"context"
	"net/http"

	"github.com/GriffinCanCode/TableScan/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TableScan/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/TableScan/internal/scan"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the banner endpoint
const Version = "1.0.0"

// Scanner runs one page scan
type Scanner interface {
	Scan(ctx context.Context, url string) (scan.Outcome, error)
}

// BreakerReporter exposes circuit breaker state per upstream host
type BreakerReporter interface {
	BreakerStates() map[string]string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	scanner  Scanner
	breakers BreakerReporter
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	logger   *zap.Logger
}

// NewHandlers creates a new handler set. breakers and metrics may be nil.
func NewHandlers(
	scanner Scanner,
	breakers BreakerReporter,
	metrics *monitoring.Metrics,
	tracer *tracing.Tracer,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		scanner:  scanner,
		breakers: breakers,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "TableScan",
		"version": Version,
	})
}

// Health reports liveness plus upstream breaker state. Any open breaker
// marks the service degraded.
func (h *Handlers) Health(c *gin.Context) {
	status := "healthy"
	breakers := map[string]string{}
	if h.breakers != nil {
		breakers = h.breakers.BreakerStates()
	}
	for _, state := range breakers {
		if state == "open" {
			status = "degraded"
			break
		}
	}

	body := gin.H{
		"status":   status,
		"breakers": breakers,
	}
	if h.metrics != nil {
		body["uptime_seconds"] = h.metrics.UptimeSeconds()
		body["metrics"] = h.metrics.Snapshot()
	}

	c.JSON(http.StatusOK, body)
}
