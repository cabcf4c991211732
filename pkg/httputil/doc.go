// Package httputil provides HTTP utilities for upstream API clients.
//
// # Overview
//
// This package provides infrastructure used by the catalog client:
//
//   - [Retry]: Optional retry with exponential backoff
//   - [RetryableError]: Marker for transient failures
//
// # Retry
//
// [Retry] wraps an operation with retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// Only errors wrapped in [RetryableError] are retried; everything else is
// returned immediately:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.Get(ctx, url, &v)
//	})
//
// # Configuration
//
// discograph treats every failed lookup as terminal for that user action, so
// the default attempt count is 1. Operators can raise it with the
// discogs.retries setting.
package httputil
