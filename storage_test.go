package bananabatch

import (
	"context"
	"errors"
	"testing"
)

// fakeStorage records saved files in memory.
type fakeStorage struct {
	saved map[string][]byte
}

func (s *fakeStorage) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[path] = data
	return "https://storage.example/" + path, nil
}

func TestSaveToStorage(t *testing.T) {
	storage := &fakeStorage{}
	images := []GeneratedImage{
		NewGeneratedImage([]byte("first"), "image/png"),
		NewErrorImage(),
		NewGeneratedImage([]byte("third"), "image/jpeg"),
	}

	results, err := SaveToStorage(context.Background(), storage, images, "batches/run1")
	if err != nil {
		t.Fatalf("SaveToStorage() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 saved images (error placeholder skipped), got %d", len(results))
	}
	if results[0].Path != "batches/run1_0.png" {
		t.Errorf("unexpected path %q", results[0].Path)
	}
	if results[1].Path != "batches/run1_2.jpg" {
		t.Errorf("unexpected path %q", results[1].Path)
	}
	if string(storage.saved[results[0].Path]) != "first" {
		t.Error("saved bytes should match the decoded data URI")
	}
}

func TestSaveToStorage_NoStorage(t *testing.T) {
	_, err := SaveToStorage(context.Background(), nil, []GeneratedImage{NewGeneratedImage([]byte("x"), "image/png")}, "p")
	if !errors.Is(err, ErrStorageNotConfigured) {
		t.Errorf("expected ErrStorageNotConfigured, got %v", err)
	}
}

func TestSaveToStorage_NoImages(t *testing.T) {
	results, err := SaveToStorage(context.Background(), &fakeStorage{}, nil, "p")
	if err != nil || results != nil {
		t.Errorf("expected nil, nil for empty input, got %v, %v", results, err)
	}
}
