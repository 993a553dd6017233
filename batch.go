package bananabatch

import (
	"context"
	"time"
)

// BatchRequest describes one generation batch. It is ephemeral: the manager
// reads it, never mutates it, and never holds it past GenerateBatch.
type BatchRequest struct {
	// Prompt is the new turn's text.
	Prompt string

	// History is the conversation so far, oldest first. It is treated as
	// immutable for the duration of the batch.
	History []Message

	// Settings for this batch. Nil means DefaultSettings.
	Settings *BatchSettings

	// ReferenceImages are the new turn's uploads.
	ReferenceImages []UploadedImage

	// Token allows the caller to cancel mid-batch. Nil means uncancellable.
	Token *CancellationToken
}

// GenerateBatch runs a full batch: context construction, worker pool,
// per-slot retries, and incremental delivery through sink.
//
// It returns an error only for pre-dispatch faults: an unregistered model
// or provider, out-of-range settings, or content that fails validation
// before any network call. Once workers start, per-slot failures are
// contained and surface solely as error-status images through the sink; the
// call resolves nil when all workers return, cancelled or not. An
// unclassified internal fault from a worker aborts the pool and propagates.
func (m *Manager) GenerateBatch(ctx context.Context, req *BatchRequest, sink StreamSink) error {
	settings := req.Settings
	if settings == nil {
		settings = DefaultSettings()
	}
	if err := ValidateBatchSettings(settings); err != nil {
		return err
	}

	model := m.resolveModel(settings)
	adapter, apiModelName, err := m.getAdapterForModel(model)
	if err != nil {
		return err
	}

	contents, err := m.contextBuilder.Build(req.History, req.Prompt, req.ReferenceImages)
	if err != nil {
		return err
	}

	// Shared read-only across all workers and attempts.
	genReq := &GenerateRequest{
		Model:    apiModelName,
		Contents: contents,
		Config: &ImageConfig{
			AspectRatio: settings.AspectRatio,
			Size:        settings.Resolution,
		},
	}

	start := time.Now()
	m.logger.Debug("starting batch generation",
		"model", string(model),
		"batch_size", settings.BatchSize,
		"prompt_length", len(req.Prompt),
		"reference_images", len(req.ReferenceImages),
		"history_turns", len(req.History),
	)

	task := func(taskCtx context.Context, slot int) error {
		if err := m.checkRateLimit(taskCtx, model, settings, req.Prompt); err != nil {
			if token := req.Token; token.Cancelled() {
				return nil
			}
			m.logger.Warn("slot dropped by rate limit",
				"model", string(model),
				"slot", slot,
				"error", err.Error(),
			)
			sink.OnImage(NewErrorImage())
			return nil
		}

		m.retry.run(taskCtx, slot, func(attemptCtx context.Context) (*GenerateResponse, error) {
			return adapter.Generate(attemptCtx, genReq)
		}, req.Token, sink)
		return nil
	}

	if err := runPool(ctx, settings.BatchSize, settings.MaxConcurrency, req.Token, sink, task); err != nil {
		m.logger.Error("batch aborted by internal fault",
			"model", string(model),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return err
	}

	m.logger.Info("batch completed",
		"model", string(model),
		"batch_size", settings.BatchSize,
		"cancelled", req.Token.Cancelled(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// checkRateLimit applies the model's limiter to one slot.
func (m *Manager) checkRateLimit(ctx context.Context, model Model, settings *BatchSettings, prompt string) error {
	const tokenBuffer = 100

	m.mu.RLock()
	limiter := m.rateLimiters[model]
	m.mu.RUnlock()

	if limiter == nil {
		return nil
	}

	estimatedTokens := m.tokenEstimator.EstimateTokens(prompt) + tokenBuffer

	if settings.WaitOnRateLimit {
		return limiter.WaitAndConsume(ctx, estimatedTokens, settings.MaxWaitDuration)
	}

	if !limiter.TryConsume(estimatedTokens) {
		return &RateLimitError{
			RetryAfter: limiter.TimeUntilAvailable(estimatedTokens),
			LimitType:  "tokens",
			Model:      string(model),
		}
	}

	return nil
}
