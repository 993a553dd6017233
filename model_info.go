package bananabatch

// RateLimits defines rate limiting parameters for a model.
type RateLimits struct {
	TokensPerMinute   int
	RequestsPerMinute int
}

// ImageConstraints defines supported image configurations for a model.
type ImageConstraints struct {
	SupportedAspectRatios []AspectRatio
	SupportedSizes        []ImageSize
}

// ModelInfo contains metadata for a model published by its adapter.
type ModelInfo struct {
	// Name is the public model name (e.g., "nano-banana-2")
	Name string

	// Provider serves this model
	Provider Provider

	// APIModelName is the actual API name (e.g., "gemini-3-pro-image-preview")
	APIModelName string

	// MaxReferenceImages per request
	MaxReferenceImages int

	ImageConstraints ImageConstraints

	RateLimits RateLimits
}
