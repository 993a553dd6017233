package gemini

import (
	bananabatch "github.com/Aowrow/banana-batch"
)

// NanoBanana2Info describes Gemini 3 Pro Image (the default model).
var NanoBanana2Info = bananabatch.ModelInfo{
	Name:               string(bananabatch.ModelNanoBanana2),
	Provider:           bananabatch.ProviderGeminiAPI,
	APIModelName:       APIModelNanoBanana2,
	MaxReferenceImages: 14,
	ImageConstraints: bananabatch.ImageConstraints{
		SupportedAspectRatios: []bananabatch.AspectRatio{
			bananabatch.AspectRatio1x1,
			bananabatch.AspectRatio3x4,
			bananabatch.AspectRatio4x3,
			bananabatch.AspectRatio9x16,
			bananabatch.AspectRatio16x9,
		},
		SupportedSizes: []bananabatch.ImageSize{
			bananabatch.ImageSize1K,
			bananabatch.ImageSize2K,
			bananabatch.ImageSize4K,
		},
	},
	RateLimits: bananabatch.RateLimits{
		TokensPerMinute:   1_000_000,
		RequestsPerMinute: 20,
	},
}

// NanoBanana1Info describes Gemini 2.5 Flash Image.
var NanoBanana1Info = bananabatch.ModelInfo{
	Name:               "nano-banana-1",
	Provider:           bananabatch.ProviderGeminiAPI,
	APIModelName:       APIModelNanoBanana1,
	MaxReferenceImages: 3,
	ImageConstraints: bananabatch.ImageConstraints{
		SupportedAspectRatios: []bananabatch.AspectRatio{
			bananabatch.AspectRatio1x1,
			bananabatch.AspectRatio3x4,
			bananabatch.AspectRatio4x3,
			bananabatch.AspectRatio9x16,
			bananabatch.AspectRatio16x9,
		},
		SupportedSizes: []bananabatch.ImageSize{
			bananabatch.ImageSize1K,
		},
	},
	RateLimits: bananabatch.RateLimits{
		TokensPerMinute:   500_000,
		RequestsPerMinute: 10,
	},
}
