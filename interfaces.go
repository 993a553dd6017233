package bananabatch

import "context"

// ProviderAdapter is the core interface for image generation backends.
// Implement this interface to add support for new providers.
//
// An adapter is stateless with respect to batches: given a request it
// returns the provider's output parts or an error. Retry and scheduling
// live above the adapter. Errors should be *ProviderError so the retry
// loop can classify them; anything else is treated as retryable.
//
// The first model returned by Models() is considered the default model.
type ProviderAdapter interface {
	// Generate performs a single generation call.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Models returns the model definitions supported by this provider.
	// The first model in the list is the default.
	Models() []ModelInfo

	// Close releases any resources held by the adapter.
	Close() error
}

// StreamSink receives partial results while a batch runs. Calls may
// interleave arbitrarily across concurrent workers, so implementations are
// expected to perform idempotent, append-only mutation of caller-owned
// state. Return values are never read.
type StreamSink interface {
	// OnImage delivers one slot result: a success image or an error
	// placeholder.
	OnImage(img GeneratedImage)

	// OnText delivers a text part that accompanied a successful slot.
	OnText(text string)

	// OnProgress reports how many slots have completed. Values are
	// non-decreasing; the final call of an uncancelled batch reports
	// (total, total).
	OnProgress(completed, total int)
}
