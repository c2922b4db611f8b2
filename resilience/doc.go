// Package resilience provides bounded retry with exponential backoff.
//
// The event source transport uses it to reopen a stream after transport
// errors, up to a fixed number of retries:
//
//	cfg := resilience.DefaultRetryConfig()
//	cfg.MaxAttempts = maxRetryCount + 1
//	cfg.RetryIf = httpclient.IsTransport
//
//	err := resilience.RetryFunc(ctx, cfg, func(attempt int) error {
//	    return openStream(ctx, attempt)
//	})
package resilience
