// Package ratelimiter provides per-model rate limiting for generation
// batches. The default implementation is an in-memory token bucket; the
// Limiter interface is the seam for swapping in a distributed limiter.
package ratelimiter

import (
	"context"
	"time"
)

// Limiter gates generation slots against a token budget. Every method must
// be safe for concurrent use: a batch calls the limiter from several workers
// at once.
type Limiter interface {
	// TryConsume consumes numTokens if the budget allows and reports whether
	// it did. The check and the consume are a single atomic step.
	TryConsume(numTokens int) bool

	// TimeUntilAvailable estimates how long until the given tokens could be
	// consumed. It does not modify the budget.
	TimeUntilAvailable(tokens int) time.Duration

	// WaitAndConsume blocks until the tokens can be consumed, the context is
	// cancelled, or the projected wait exceeds maxWait. Zero maxWait means
	// wait indefinitely.
	WaitAndConsume(ctx context.Context, tokens int, maxWait time.Duration) error
}
