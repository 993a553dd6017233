package bananabatch

import (
	"time"
)

// Model represents a specific image generation model.
type Model string

// ImageSize represents the output resolution for generated images.
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

// AspectRatio represents the aspect ratio for generated images.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio4x3  AspectRatio = "4:3"
	AspectRatio3x4  AspectRatio = "3:4"
	AspectRatioAuto AspectRatio = ""
)

// BatchSettings holds per-request configuration for a generation batch.
type BatchSettings struct {
	// BatchSize is the number of independent generation slots (1-20).
	BatchSize int

	// AspectRatio of the output images
	AspectRatio AspectRatio

	// Resolution of the output images (1K, 2K, 4K)
	Resolution ImageSize

	// MaxConcurrency caps the number of concurrent workers. The effective
	// worker count is min(MaxConcurrency, BatchSize). Zero means the
	// default cap.
	MaxConcurrency int

	// Model to use for generation (if empty, uses the manager's default)
	Model Model

	// WaitOnRateLimit, if true, causes each slot to wait when rate limited
	// instead of failing the slot immediately.
	WaitOnRateLimit bool

	// MaxWaitDuration is the maximum time a slot waits when WaitOnRateLimit
	// is true. Zero means no limit.
	MaxWaitDuration time.Duration
}

// DefaultSettings returns a BatchSettings with sensible defaults.
func DefaultSettings() *BatchSettings {
	return &BatchSettings{
		BatchSize:      1,
		AspectRatio:    AspectRatioAuto,
		Resolution:     ImageSize2K,
		MaxConcurrency: DefaultMaxConcurrency,
	}
}

// WithBatchSize returns a copy of the settings with the specified batch size.
func (s *BatchSettings) WithBatchSize(n int) *BatchSettings {
	if s == nil {
		return &BatchSettings{BatchSize: n}
	}
	sX := *s
	sX.BatchSize = n
	return &sX
}

// ImageConfig is the image-output portion of a provider request.
type ImageConfig struct {
	AspectRatio AspectRatio
	Size        ImageSize
}

// String returns the string representation for API calls.
func (s ImageSize) String() string { return string(s) }

// String returns the string representation for API calls.
func (a AspectRatio) String() string { return string(a) }

// String returns the model identifier.
func (m Model) String() string { return string(m) }
