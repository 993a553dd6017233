package bananabatch

import "sync/atomic"

// CancellationToken is a one-shot, externally settable cancellation flag.
// It is cooperative: workers poll it before dequeuing a slot, before each
// retry attempt, and after each backoff sleep. An in-flight provider call
// runs to completion, but its result is discarded if the token was
// cancelled in the meantime.
type CancellationToken struct {
	cancelled atomic.Bool
}

// NewCancellationToken creates an uncancelled token.
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{}
}

// Cancel sets the flag. Idempotent.
func (t *CancellationToken) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called. A nil token is never
// cancelled, so callers without a token can pass nil.
func (t *CancellationToken) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}
