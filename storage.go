package bananabatch

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
)

// Storage is an interface for persisting generated images. Implementations
// can wrap existing storage clients (GCS, S3, local disk) with this
// interface.
type Storage interface {
	// SaveFile saves image data to storage and returns the public URL.
	// The path should include the full object path (e.g., "images/2024/01/output.png").
	// The contentType is typically the image's MIME type (e.g., "image/png").
	SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error)
}

// StorageResult contains information about a saved image.
type StorageResult struct {
	// URL is the public URL where the image can be accessed
	URL string

	// Path is the storage path/key where the image was saved
	Path string

	// Size is the number of bytes saved
	Size int
}

// SaveImages saves the success-status images of a batch to the configured
// storage, skipping error placeholders. If no storage is configured,
// returns ErrStorageNotConfigured.
func (m *Manager) SaveImages(ctx context.Context, images []GeneratedImage, basePath string) ([]StorageResult, error) {
	m.mu.RLock()
	storage := m.storage
	m.mu.RUnlock()

	return SaveToStorage(ctx, storage, images, basePath)
}

// SaveToStorage decodes each success-status image's data URI and writes the
// bytes to storage. Images are saved with paths like:
// {basePath}_{index}.{extension}
func SaveToStorage(
	ctx context.Context,
	storage Storage,
	images []GeneratedImage,
	basePath string) ([]StorageResult, error) {

	if storage == nil {
		return nil, ErrStorageNotConfigured
	}
	if len(images) == 0 {
		return nil, nil
	}

	results := make([]StorageResult, 0, len(images))
	for i, img := range images {
		if img.Status != ImageStatusSuccess {
			continue
		}
		mimeType, data, err := DecodeDataURI(img.Data)
		if err != nil {
			return results, err
		}

		path := basePath
		if len(images) > 1 {
			path = basePath + "_" + strconv.Itoa(i)
		}
		path = path + "." + extensionFromMIME(mimeType)

		url, err := storage.SaveFile(ctx, data, path, mimeType)
		if err != nil {
			return results, err
		}

		results = append(results, StorageResult{
			URL:  url,
			Path: path,
			Size: len(data),
		})
	}

	return results, nil
}

// GetMIMEType guesses an image MIME type from a file path.
func GetMIMEType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}

// extensionFromMIME returns a file extension for common image MIME types.
func extensionFromMIME(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
