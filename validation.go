package bananabatch

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrEmptyContent        = errors.New("request content cannot be empty")
	ErrInvalidMIMEType     = errors.New("invalid or unsupported MIME type")
	ErrImageTooLarge       = errors.New("image data exceeds maximum size")
	ErrTooManyImages       = errors.New("too many reference images")
	ErrNoValidImages       = errors.New("no reference image could be decoded")
	ErrBatchSizeOutOfRange = errors.New("batch size out of range")
)

// Limits
const (
	// MaxImageBytes is the provider ceiling on a single decoded image (20MB)
	MaxImageBytes = 20 * 1024 * 1024

	// MaxReferenceImages is the maximum number of reference images per turn
	MaxReferenceImages = 14

	// MaxBatchSize is the maximum number of slots in a batch
	MaxBatchSize = 20
)

// ValidMIMETypes contains the supported image MIME types
var ValidMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidateBatchSettings checks the settings a batch will run with.
func ValidateBatchSettings(s *BatchSettings) error {
	if s.BatchSize < 1 || s.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrBatchSizeOutOfRange, s.BatchSize, MaxBatchSize)
	}
	return nil
}

// ValidateUploadedImage checks that an uploaded image decodes to a usable
// {MIME type, payload} pair within the provider size ceiling.
func ValidateUploadedImage(img UploadedImage) error {
	mimeType, payload, err := ParseDataURI(img.Data)
	if err != nil {
		return err
	}

	if !ValidMIMETypes[mimeType] {
		return fmt.Errorf("%w: %s", ErrInvalidMIMEType, mimeType)
	}

	if size := EstimatedDecodedSize(payload); size > MaxImageBytes {
		return fmt.Errorf("%w: ~%d bytes (max %d)", ErrImageTooLarge, size, MaxImageBytes)
	}

	return nil
}

// ValidateUploadedImages checks a reference image list before context
// construction. Per-image problems are left to the builder (which drops
// bad images with a warning); only the hard count limit is enforced here.
func ValidateUploadedImages(images []UploadedImage) error {
	if len(images) > MaxReferenceImages {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyImages, len(images), MaxReferenceImages)
	}
	return nil
}
