/*
Package tracing provides lightweight request tracing for the scan service.

# Overview

Every HTTP request gets a trace ID (taken from X-Trace-ID when the caller
sends one) and a span. Handlers open child spans for the work they do, such
as a page scan. Finished spans are written to the structured log by a
background collector.

# Usage

	tracer := tracing.New("tablescan", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "scan")
	span.SetTag("url", url)
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

# Trace Format

Trace context travels in two headers:

	X-Trace-ID: req_01ARZ3NDEKTSV4RRFFQ69G5FAV
	X-Span-ID:  req_01ARZ3NDEKTSV4RRFFQ69G5FAW
*/
package tracing
