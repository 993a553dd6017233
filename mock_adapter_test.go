package bananabatch

import (
	"context"
	"sync"
)

// MockAdapter is a mock implementation of ProviderAdapter.
type MockAdapter struct {
	GenerateFunc func(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	ModelsFunc   func() []ModelInfo
	CloseFunc    func() error

	mu    sync.Mutex
	calls int
}

func (m *MockAdapter) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &GenerateResponse{}, nil
}

// Calls returns how many times Generate was invoked.
func (m *MockAdapter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockAdapter) Models() []ModelInfo {
	if m.ModelsFunc != nil {
		return m.ModelsFunc()
	}
	return []ModelInfo{
		{
			Name:         "test-model",
			Provider:     "test-provider",
			APIModelName: "test-model-api",
		},
	}
}

func (m *MockAdapter) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// recordingSink is a thread-safe StreamSink that records every callback.
type recordingSink struct {
	mu       sync.Mutex
	images   []GeneratedImage
	texts    []string
	progress [][2]int
}

func (s *recordingSink) OnImage(img GeneratedImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = append(s.images, img)
}

func (s *recordingSink) OnText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
}

func (s *recordingSink) OnProgress(completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, [2]int{completed, total})
}

func (s *recordingSink) Images() []GeneratedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]GeneratedImage(nil), s.images...)
}

func (s *recordingSink) successCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, img := range s.images {
		if img.Status == ImageStatusSuccess {
			n++
		}
	}
	return n
}

func (s *recordingSink) errorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, img := range s.images {
		if img.Status == ImageStatusError {
			n++
		}
	}
	return n
}

func (s *recordingSink) progressCalls() [][2]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][2]int(nil), s.progress...)
}

// imageResponse builds a response with n fake image parts.
func imageResponse(n int) *GenerateResponse {
	resp := &GenerateResponse{}
	for i := 0; i < n; i++ {
		resp.Parts = append(resp.Parts, ImagePart("image/png", []byte("fake-image-bytes")))
	}
	return resp
}

// textOnlyResponse builds a response with a single text part and no images.
func textOnlyResponse(text string) *GenerateResponse {
	return &GenerateResponse{Parts: []*Part{TextPart(text)}}
}

// safetyResponse builds a safety-rejected response.
func safetyResponse() *GenerateResponse {
	return &GenerateResponse{FinishReason: FinishReasonSafety}
}
