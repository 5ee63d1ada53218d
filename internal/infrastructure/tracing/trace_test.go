package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GriffinCanCode/TableScan/internal/shared/id"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartSpanCreatesTrace(t *testing.T) {
	tracer := New("test", zap.NewNop())
	defer tracer.Close()

	span, ctx := tracer.StartSpan(context.Background(), "root")

	assert.NotEmpty(t, span.TraceID)
	assert.NotEmpty(t, span.SpanID)
	assert.Empty(t, span.ParentID)
	assert.Equal(t, span.TraceID, GetTraceID(ctx))
	assert.Equal(t, span.SpanID, GetSpanID(ctx))
}

func TestStartSpanContinuesTrace(t *testing.T) {
	tracer := New("test", zap.NewNop())
	defer tracer.Close()

	parent, ctx := tracer.StartSpan(context.Background(), "parent")
	child, _ := tracer.StartSpan(ctx, "child")

	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.NotEqual(t, parent.SpanID, child.SpanID)
}

func TestInjectExtractRoundTrip(t *testing.T) {
	tracer := New("test", zap.NewNop())
	defer tracer.Close()

	span, ctx := tracer.StartSpan(context.Background(), "op")
	headers := map[string]string{}
	InjectTraceContext(ctx, headers)

	traceID, spanID := ExtractTraceContext(headers)
	assert.Equal(t, span.TraceID, traceID)
	assert.Equal(t, span.SpanID, spanID)
}

func TestSubmitLogsSpans(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New("test", zap.New(core))

	ok, _ := tracer.StartSpan(context.Background(), "ok")
	ok.Finish()
	tracer.Submit(ok)

	failed, _ := tracer.StartSpan(context.Background(), "failed")
	failed.SetError(errors.New("boom"))
	failed.Finish()
	tracer.Submit(failed)

	tracer.Close()

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "span completed", logs.All()[0].Message)
	assert.Equal(t, "span completed with error", logs.All()[1].Message)
	assert.Equal(t, 500, failed.StatusCode)
}

func TestHTTPMiddlewarePropagatesHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := New("test", zap.NewNop())
	defer tracer.Close()

	issued := TraceID(id.NewRequestID())

	tests := []struct {
		name      string
		header    string
		wantSame  bool
		wantTrace TraceID
	}{
		{name: "continues issued trace", header: string(issued), wantSame: true, wantTrace: issued},
		{name: "replaces free text", header: "trace-123"},
		{name: "starts trace when absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen TraceID
			router := gin.New()
			router.Use(HTTPMiddleware(tracer))
			router.GET("/ping", func(c *gin.Context) {
				seen = GetTraceID(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set(HeaderTraceID, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, string(seen), w.Header().Get(HeaderTraceID))
			assert.NotEmpty(t, w.Header().Get(HeaderSpanID))
			if tt.wantSame {
				assert.Equal(t, tt.wantTrace, seen)
			} else {
				assert.True(t, id.IsValid(string(seen)))
				assert.NotEqual(t, TraceID(tt.header), seen)
			}
		})
	}
}
