// Package fetch retrieves web pages for scanning.
//
// Built on go-resty/resty over a go-retryablehttp pooled transport:
//   - per-request timeout (zero disables it)
//   - optional retries, off by default
//   - client-wide request rate limit (x/time/rate)
//   - one circuit breaker per target host
//   - response size cap
//
// Any response outside 2xx is an error. Only http and https URLs are fetched.
//
// Example Usage:
//
//	client := fetch.New(fetch.DefaultConfig(), logger)
//	body, err := client.Fetch(ctx, "https://example.com/")
package fetch
