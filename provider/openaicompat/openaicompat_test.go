package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	bananabatch "github.com/Aowrow/banana-batch"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	adapter, err := New(&bananabatch.ProviderConfig{
		Provider: bananabatch.ProviderOpenAICompat,
		APIKey:   "sk-test",
		BaseURL:  srv.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return adapter
}

func testRequest() *bananabatch.GenerateRequest {
	return &bananabatch.GenerateRequest{
		Model: "gemini-3-pro-image-preview",
		Contents: []*bananabatch.Content{
			{Role: bananabatch.RoleUser, Parts: []*bananabatch.Part{bananabatch.TextPart("a fox")}},
		},
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(&bananabatch.ProviderConfig{})
	if !errors.Is(err, bananabatch.ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestGenerate_ParsesImagesAndText(t *testing.T) {
	imgURI := bananabatch.FormatDataURI("image/png", []byte("png-bytes"))

	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gemini-3-pro-image-preview" {
			t.Errorf("unexpected model %q", req.Model)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"finish_reason": "stop",
				"message": map[string]any{
					"content": "here is your fox",
					"images": []map[string]any{
						{"image_url": map[string]any{"url": imgURI}},
					},
				},
			}},
		})
	})

	resp, err := adapter.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	images := resp.ImageParts()
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if string(images[0].Data) != "png-bytes" {
		t.Error("image bytes mismatch")
	}
	texts := resp.TextParts()
	if len(texts) != 1 || texts[0] != "here is your fox" {
		t.Errorf("unexpected texts %v", texts)
	}
}

func TestGenerate_ContentFilterMapsToSafety(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"finish_reason": "content_filter",
				"message":       map[string]any{"content": ""},
			}},
		})
	})

	resp, err := adapter.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !resp.SafetyRejected() {
		t.Error("content_filter should map to a safety rejection")
	}
}

func TestGenerate_HTTPStatusClassification(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusInternalServerError, true},
		{http.StatusTooManyRequests, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "nope"},
			})
		})

		_, err := adapter.Generate(context.Background(), testRequest())
		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		var pErr *bananabatch.ProviderError
		if !errors.As(err, &pErr) {
			t.Fatalf("status %d: expected ProviderError, got %T", tt.status, err)
		}
		if pErr.Retryable != tt.retryable {
			t.Errorf("status %d: retryable = %v, want %v", tt.status, pErr.Retryable, tt.retryable)
		}
		if pErr.Message != "nope" {
			t.Errorf("status %d: message %q not extracted from error body", tt.status, pErr.Message)
		}
	}
}

func TestGenerate_NoChoices(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := adapter.Generate(context.Background(), testRequest())
	var pErr *bananabatch.ProviderError
	if !errors.As(err, &pErr) || pErr.Code != "no_candidate" {
		t.Errorf("expected no_candidate ProviderError, got %v", err)
	}
}

func TestConvertContents_RolesAndOrder(t *testing.T) {
	contents := []*bananabatch.Content{
		{Role: bananabatch.RoleModel, Parts: []*bananabatch.Part{
			bananabatch.ImagePart("image/png", []byte("continuation")),
		}},
		{Role: bananabatch.RoleUser, Parts: []*bananabatch.Part{
			bananabatch.TextPart("make it blue"),
			bananabatch.ImagePart("image/png", []byte("reference")),
		}},
	}

	msgs := convertContents(contents)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "assistant" {
		t.Errorf("model role should map to assistant, got %q", msgs[0].Role)
	}
	if msgs[1].Role != "user" {
		t.Errorf("user role should stay user, got %q", msgs[1].Role)
	}
	if msgs[1].Content[0].Type != "text" || msgs[1].Content[1].Type != "image_url" {
		t.Error("part order must be preserved: text before images")
	}
}
