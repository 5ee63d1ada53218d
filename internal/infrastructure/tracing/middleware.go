package tracing

import (
	"context"

	"github.com/GriffinCanCode/TableScan/internal/shared/id"
	"github.com/gin-gonic/gin"
)

// HTTPMiddleware creates Gin middleware for HTTP tracing
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID, parentID := ExtractTraceContext(map[string]string{
			HeaderTraceID: c.GetHeader(HeaderTraceID),
			HeaderSpanID:  c.GetHeader(HeaderSpanID),
		})

		// only IDs this service issued are continued; anything else starts
		// a fresh trace so client input never reaches the span log verbatim
		ctx := c.Request.Context()
		if id.IsValid(string(traceID)) {
			ctx = context.WithValue(ctx, traceIDKey, traceID)
		}
		if id.IsValid(string(parentID)) {
			ctx = context.WithValue(ctx, spanIDKey, parentID)
		}

		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+c.Request.URL.Path)
		span.SetTag("http.method", c.Request.Method)
		span.SetTag("http.host", c.Request.Host)

		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderTraceID, string(span.TraceID))
		c.Header(HeaderSpanID, string(span.SpanID))

		c.Next()

		if route := c.FullPath(); route != "" {
			span.Name = c.Request.Method + " " + route
		}
		span.SetStatus(c.Writer.Status())
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		}

		span.Finish()
		tracer.Submit(span)
	}
}
