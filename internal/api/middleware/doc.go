// Package middleware provides the gin middleware in front of the scan API.
//
//   - CORS: every origin may call the API, matching a browser charting client
//   - RateLimit: per-IP token buckets, idle clients are evicted
//   - GlobalRateLimit: one token bucket shared by all callers
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
