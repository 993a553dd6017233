// Package gemini provides a ProviderAdapter implementation using Google's
// Gemini API via the official Go SDK:
// https://github.com/googleapis/go-genai
package gemini

import (
	"context"
	"errors"
	"fmt"

	bananabatch "github.com/Aowrow/banana-batch"
	"google.golang.org/genai"
)

// Model name constants - the actual API model names.
const (
	// APIModelNanoBanana2 is the actual API name for Gemini 3 Pro Image
	APIModelNanoBanana2 = "gemini-3-pro-image-preview"

	// APIModelNanoBanana1 is the actual API name for Gemini 2.5 Flash Image
	APIModelNanoBanana1 = "gemini-2.5-flash-image"
)

// GeminiAdapter implements ProviderAdapter using Google's Gemini API.
type GeminiAdapter struct {
	client *genai.Client
}

var _ bananabatch.ProviderAdapter = (*GeminiAdapter)(nil)

// New creates a new GeminiAdapter from a ProviderConfig.
func New(ctx context.Context, config *bananabatch.ProviderConfig) (*GeminiAdapter, error) {
	if config == nil {
		config = &bananabatch.ProviderConfig{}
	}

	clientCfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}

	if config.APIKey != "" {
		clientCfg.APIKey = config.APIKey
	}
	// If APIKey is empty, the SDK will try GOOGLE_API_KEY or GEMINI_API_KEY env vars

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAdapter{client: client}, nil
}

// NewWithAPIKey creates an adapter with an API key for the Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string) (*GeminiAdapter, error) {
	return New(ctx, &bananabatch.ProviderConfig{
		Provider: bananabatch.ProviderGeminiAPI,
		APIKey:   apiKey,
	})
}

// Generate performs a single generation call.
func (g *GeminiAdapter) Generate(ctx context.Context, req *bananabatch.GenerateRequest) (*bananabatch.GenerateResponse, error) {
	contents := convertContents(req.Contents)
	genConfig := buildGenerateContentConfig(req.Config)

	result, err := g.client.Models.GenerateContent(ctx, req.Model, contents, genConfig)
	if err != nil {
		return nil, classifyError(err)
	}

	return parseResult(result)
}

// Models returns the model definitions supported by this provider.
// The first model (NanoBanana2) is the default.
func (g *GeminiAdapter) Models() []bananabatch.ModelInfo {
	return []bananabatch.ModelInfo{
		NanoBanana2Info,
		NanoBanana1Info,
	}
}

// Close releases any resources held by the adapter.
func (g *GeminiAdapter) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// convertContents maps the provider-neutral content shape to genai's.
func convertContents(contents []*bananabatch.Content) []*genai.Content {
	out := make([]*genai.Content, 0, len(contents))
	for _, c := range contents {
		parts := make([]*genai.Part, 0, len(c.Parts))
		for _, p := range c.Parts {
			switch {
			case p.InlineImage != nil:
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{
						Data:     p.InlineImage.Data,
						MIMEType: p.InlineImage.MIMEType,
					},
				})
			case p.Text != "":
				parts = append(parts, &genai.Part{Text: p.Text})
			}
		}
		out = append(out, &genai.Content{
			Role:  string(c.Role),
			Parts: parts,
		})
	}
	return out
}

// buildGenerateContentConfig converts our config to Gemini's format.
func buildGenerateContentConfig(config *bananabatch.ImageConfig) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		// Enable image output
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	if config == nil {
		return genConfig
	}

	imageConfig := &genai.ImageConfig{}
	if config.Size != "" {
		imageConfig.ImageSize = config.Size.String()
	}
	if config.AspectRatio != "" {
		imageConfig.AspectRatio = config.AspectRatio.String()
	}
	genConfig.ImageConfig = imageConfig

	return genConfig
}

// parseResult converts a Gemini response to the provider-neutral shape.
func parseResult(result *genai.GenerateContentResponse) (*bananabatch.GenerateResponse, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, &bananabatch.ProviderError{
			Provider:  string(bananabatch.ProviderGeminiAPI),
			Code:      "no_candidate",
			Message:   "empty response from model",
			Retryable: true,
		}
	}

	resp := &bananabatch.GenerateResponse{}

	for _, candidate := range result.Candidates {
		if candidate.FinishReason == genai.FinishReasonSafety {
			resp.FinishReason = bananabatch.FinishReasonSafety
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			// Thought parts are internal reasoning, not output.
			if part.Thought {
				continue
			}
			if part.Text != "" {
				resp.Parts = append(resp.Parts, bananabatch.TextPart(part.Text))
			}
			if part.InlineData != nil && part.InlineData.Data != nil {
				resp.Parts = append(resp.Parts, bananabatch.ImagePart(part.InlineData.MIMEType, part.InlineData.Data))
			}
		}
	}

	if len(resp.Parts) == 0 && resp.FinishReason != bananabatch.FinishReasonSafety {
		return nil, &bananabatch.ProviderError{
			Provider:  string(bananabatch.ProviderGeminiAPI),
			Code:      "no_content_parts",
			Message:   "response candidates contained no parts",
			Retryable: true,
		}
	}

	return resp, nil
}

// classifyError wraps a Gemini SDK error with retry classification.
func classifyError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		// Transport-level failure.
		return &bananabatch.ProviderError{
			Provider:  string(bananabatch.ProviderGeminiAPI),
			Code:      "transport",
			Message:   err.Error(),
			Retryable: true,
			Err:       err,
		}
	}

	retryable := apiErr.Code == 429 || apiErr.Code >= 500
	return &bananabatch.ProviderError{
		Provider:  string(bananabatch.ProviderGeminiAPI),
		Code:      apiErr.Status,
		Status:    apiErr.Code,
		Message:   apiErr.Message,
		Retryable: retryable,
		Err:       err,
	}
}
