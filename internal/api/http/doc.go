// Package http provides the gin handlers of the TableScan REST API.
//
// Endpoints:
//   - Banner: GET /
//   - Health: GET /health (status, uptime, per-host breaker state, scan totals)
//   - Scan: POST /scan-url with body {"url": "..."}
//
// POST /scan-url answers 200 with {"table": [...]} when a numeric table was
// found and {"message": "no numeric table found"} when none was. A missing
// or empty url gives 400 {"error": "URL is required"}; fetch and parse
// failures give 500 {"error": "Error fetching the URL"} and are logged with
// their cause.
//
// Example Usage:
//
//	handlers := http.NewHandlers(scanner, fetcher, metrics, tracer, logger)
//	router.GET("/health", handlers.Health)
//	router.POST("/scan-url", handlers.ScanURL)
package http
