// Package config provides 12-factor configuration management for the scan service.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, shutdown timeout)
//   - Fetch: Outbound page fetching (timeout, retries, user agent, size cap, rate)
//   - Scan: Table collection strategy and sanitisation
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT
//   - FETCH_TIMEOUT, FETCH_RETRIES, FETCH_USER_AGENT, FETCH_MAX_BYTES, FETCH_RPS
//   - SCAN_COLLECTOR, SCAN_SANITIZE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
