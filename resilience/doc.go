// Package resilience retries operations with exponential backoff. The
// database and redis components use it to ride out a store that is still
// coming up when the service starts.
//
//	err := resilience.Do(ctx, resilience.RetryConfig{MaxAttempts: 3}, func(ctx context.Context) error {
//	    return client.Ping(ctx)
//	})
package resilience
