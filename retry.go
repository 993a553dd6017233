package bananabatch

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultMaxRetries is the number of retries after the first attempt,
	// so a permanently failing slot makes DefaultMaxRetries+1 provider calls.
	DefaultMaxRetries = 3

	// DefaultAttemptTimeout bounds a single provider call. The token is
	// cooperative only, so a hung request must be cut off here.
	DefaultAttemptTimeout = 2 * time.Minute

	defaultBackoffBase = time.Second
)

// slotOutcome is the terminal state of one slot's retry loop.
type slotOutcome int

const (
	// slotCancelled: the token fired mid-loop; the slot reports nothing.
	slotCancelled slotOutcome = iota

	// slotSucceeded: at least one image was surfaced through the sink.
	slotSucceeded

	// slotExhausted: every attempt failed (or safety fired); one error
	// placeholder was surfaced.
	slotExhausted
)

// retryPolicy runs a slot's generate function with exponential backoff.
// Failures never escape the loop as errors; a classified failure ends as a
// slot outcome, and only unclassified internal faults propagate.
type retryPolicy struct {
	maxRetries     int
	backoffBase    time.Duration
	attemptTimeout time.Duration
	logger         *slog.Logger
}

func newRetryPolicy(logger *slog.Logger) *retryPolicy {
	return &retryPolicy{
		maxRetries:     DefaultMaxRetries,
		backoffBase:    defaultBackoffBase,
		attemptTimeout: DefaultAttemptTimeout,
		logger:         logger,
	}
}

// run makes up to maxRetries+1 attempts. Every image part of a successful
// response goes through sink.OnImage and every text part through
// sink.OnText; a response without image parts is a failed attempt. Safety
// rejections skip remaining attempts. On exhaustion, and only if not
// cancelled, one error-status image is emitted as the slot's placeholder.
func (p *retryPolicy) run(
	ctx context.Context,
	slot int,
	generate func(ctx context.Context) (*GenerateResponse, error),
	token *CancellationToken,
	sink StreamSink,
) slotOutcome {

	attempts := p.maxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		if token.Cancelled() || ctx.Err() != nil {
			return slotCancelled
		}

		attemptCtx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
		resp, err := generate(attemptCtx)
		cancel()

		if err == nil && !resp.SafetyRejected() {
			if images := resp.ImageParts(); len(images) > 0 {
				// Result arrived after cancellation: drop it.
				if token.Cancelled() {
					return slotCancelled
				}
				for _, img := range images {
					sink.OnImage(NewGeneratedImage(img.Data, img.MIMEType))
				}
				for _, text := range resp.TextParts() {
					sink.OnText(text)
				}
				return slotSucceeded
			}
			err = &ProviderError{
				Code:      "no_image",
				Message:   "response contained no image parts",
				Retryable: true,
			}
		}

		if err == nil {
			err = &ProviderError{
				Code:    "safety",
				Message: "generation rejected by content safety filter",
				Safety:  true,
			}
		}

		if IsSafetyRejected(err) {
			p.logger.Warn("slot rejected by safety filter",
				"slot", slot,
				"attempt", attempt,
			)
			break
		}

		if !IsRetryable(err) {
			p.logger.Warn("slot failed with non-retryable error",
				"slot", slot,
				"attempt", attempt,
				"error", err.Error(),
			)
			break
		}

		p.logger.Debug("generation attempt failed",
			"slot", slot,
			"attempt", attempt,
			"max_attempts", attempts,
			"error", err.Error(),
		)

		if attempt == attempts {
			break
		}

		// 1s, 2s, 4s, ... between attempts; none after the last.
		delay := p.backoffBase << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return slotCancelled
		case <-timer.C:
		}

		if token.Cancelled() {
			return slotCancelled
		}
	}

	if token.Cancelled() {
		return slotCancelled
	}

	sink.OnImage(NewErrorImage())
	return slotExhausted
}
