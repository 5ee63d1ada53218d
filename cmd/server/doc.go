// Package main is the entry point for the TableScan HTTP service.
//
// The service fetches a web page on request, finds the first HTML table with
// a column of measurements and returns it as a (value, name) series for
// charting.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 3001
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
