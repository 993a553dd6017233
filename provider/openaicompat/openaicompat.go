// Package openaicompat provides a ProviderAdapter for OpenAI-compatible
// chat-completions endpoints that return images inline, as exposed by
// common relay/proxy deployments in front of image-capable models.
package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	bananabatch "github.com/Aowrow/banana-batch"
)

const (
	// DefaultBaseURL targets a local relay by default; real deployments
	// always set ProviderConfig.BaseURL.
	DefaultBaseURL = "http://localhost:3000/v1"

	defaultModel = "gemini-3-pro-image-preview"
)

// Adapter implements ProviderAdapter over an OpenAI-compatible HTTP API.
type Adapter struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	models     []bananabatch.ModelInfo
}

var _ bananabatch.ProviderAdapter = (*Adapter)(nil)

// New creates an adapter from a ProviderConfig. The API key is required:
// unlike the Gemini SDK there is no environment fallback.
func New(config *bananabatch.ProviderConfig) (*Adapter, error) {
	if config == nil || config.APIKey == "" {
		return nil, bananabatch.ErrMissingAPIKey
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := defaultModel
	if config.Model != "" {
		model = string(config.Model)
	}

	return &Adapter{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			// Per-attempt deadlines come from the request context; this is
			// a backstop for callers without one.
			Timeout: 5 * time.Minute,
		},
		models: []bananabatch.ModelInfo{
			{
				Name:               string(bananabatch.ModelNanoBanana2),
				Provider:           bananabatch.ProviderOpenAICompat,
				APIModelName:       model,
				MaxReferenceImages: 14,
			},
		},
	}, nil
}

// chat-completions wire types, multimodal content only.

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentItem `json:"content"`
}

type contentItem struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Modalities []string      `json:"modalities,omitempty"`
	Size       string        `json:"size,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Content string `json:"content"`
			Images  []struct {
				ImageURL imageURL `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Generate performs a single generation call.
func (a *Adapter) Generate(ctx context.Context, req *bananabatch.GenerateRequest) (*bananabatch.GenerateResponse, error) {
	payload := chatRequest{
		Model:      req.Model,
		Messages:   convertContents(req.Contents),
		Modalities: []string{"text", "image"},
	}
	if req.Config != nil && req.Config.Size != "" {
		payload.Size = req.Config.Size.String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &bananabatch.ProviderError{
			Provider: providerName(), Code: "marshal_error",
			Message: err.Error(), Retryable: false, Err: err,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &bananabatch.ProviderError{
			Provider: providerName(), Code: "request_error",
			Message: err.Error(), Retryable: false, Err: err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, &bananabatch.ProviderError{
			Provider: providerName(), Code: "transport",
			Message: err.Error(), Retryable: true, Err: err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &bananabatch.ProviderError{
			Provider: providerName(), Code: "read_error",
			Message: err.Error(), Retryable: true, Err: err,
		}
	}

	var out chatResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return nil, &bananabatch.ProviderError{
			Provider: providerName(), Code: "decode_error",
			Message: err.Error(), Retryable: false, Err: err,
		}
	}

	return parseResponse(&out)
}

// Models returns the model definitions supported by this adapter.
func (a *Adapter) Models() []bananabatch.ModelInfo {
	return a.models
}

// Close releases any resources held by the adapter.
func (a *Adapter) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// convertContents maps provider-neutral contents to chat messages. Images
// travel as data URIs inside image_url items; the OpenAI shape has no
// "model" role for image turns, so continuation images are attributed as
// assistant messages.
func convertContents(contents []*bananabatch.Content) []chatMessage {
	msgs := make([]chatMessage, 0, len(contents))
	for _, c := range contents {
		role := "user"
		if c.Role == bananabatch.RoleModel {
			role = "assistant"
		}
		items := make([]contentItem, 0, len(c.Parts))
		for _, p := range c.Parts {
			switch {
			case p.InlineImage != nil:
				items = append(items, contentItem{
					Type: "image_url",
					ImageURL: &imageURL{
						URL: bananabatch.FormatDataURI(p.InlineImage.MIMEType, p.InlineImage.Data),
					},
				})
			case p.Text != "":
				items = append(items, contentItem{Type: "text", Text: p.Text})
			}
		}
		msgs = append(msgs, chatMessage{Role: role, Content: items})
	}
	return msgs
}

// parseResponse flattens the first choice into the provider-neutral shape.
func parseResponse(out *chatResponse) (*bananabatch.GenerateResponse, error) {
	if len(out.Choices) == 0 {
		return nil, &bananabatch.ProviderError{
			Provider: providerName(), Code: "no_candidate",
			Message: "response contained no choices", Retryable: true,
		}
	}

	choice := out.Choices[0]
	resp := &bananabatch.GenerateResponse{}

	if choice.FinishReason == "content_filter" {
		resp.FinishReason = bananabatch.FinishReasonSafety
	}

	if choice.Message.Content != "" {
		resp.Parts = append(resp.Parts, bananabatch.TextPart(choice.Message.Content))
	}
	for _, img := range choice.Message.Images {
		mimeType, data, err := bananabatch.DecodeDataURI(img.ImageURL.URL)
		if err != nil {
			// A relay that returns fetchable URLs instead of data URIs is
			// outside this adapter's contract.
			return nil, &bananabatch.ProviderError{
				Provider: providerName(), Code: "bad_image_payload",
				Message: fmt.Sprintf("image is not a data URI: %v", err), Retryable: true, Err: err,
			}
		}
		resp.Parts = append(resp.Parts, bananabatch.ImagePart(mimeType, data))
	}

	return resp, nil
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	message := strings.TrimSpace(string(b))
	var er errorResponse
	if json.Unmarshal(b, &er) == nil && er.Error.Message != "" {
		message = er.Error.Message
	}

	return &bananabatch.ProviderError{
		Provider:  providerName(),
		Code:      "http_error",
		Status:    resp.StatusCode,
		Message:   message,
		Retryable: shouldRetryStatus(resp.StatusCode),
	}
}

func shouldRetryStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func providerName() string {
	return string(bananabatch.ProviderOpenAICompat)
}
