package http

import (
	"net/http"
	"time"

	"github.com/GriffinCanCode/TableScan/internal/shared/id"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScanRequest is the body of POST /scan-url
type ScanRequest struct {
	URL *string `json:"url"`
}

// ScanURL fetches the requested page and returns its numeric table series
func (h *Handlers) ScanURL(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == nil || *req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	scanID := id.NewScanID()
	ctx := c.Request.Context()

	var finish func(error)
	if h.tracer != nil {
		span, spanCtx := h.tracer.StartSpan(ctx, "scan")
		span.SetTag("scan.id", scanID.String())
		span.SetTag("scan.url", *req.URL)
		ctx = spanCtx
		finish = func(err error) {
			if err != nil {
				span.SetError(err)
			}
			span.Finish()
			h.tracer.Submit(span)
		}
	}

	outcome, err := h.scanner.Scan(ctx, *req.URL)
	if finish != nil {
		finish(err)
	}
	elapsed := scanElapsed(scanID)
	if err != nil {
		h.logger.Error("scan failed",
			zap.String("scan_id", scanID.String()),
			zap.String("url", *req.URL),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching the URL"})
		return
	}

	h.logger.Info("scan completed",
		zap.String("scan_id", scanID.String()),
		zap.String("url", *req.URL),
		zap.Bool("found", outcome.Found()),
		zap.Int("rows", len(outcome.Table)),
		zap.Duration("elapsed", elapsed),
	)
	c.JSON(http.StatusOK, outcome)
}

// scanElapsed measures from the millisecond timestamp embedded in the scan ID
func scanElapsed(scanID id.ScanID) time.Duration {
	issued, err := id.Timestamp(scanID.String())
	if err != nil {
		return 0
	}
	return time.Since(issued)
}
