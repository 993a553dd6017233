package bananabatch

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// ContextBuilder converts a linear conversation history plus the new turn's
// text and reference images into the ordered content an adapter expects.
//
// Isolation rules:
//   - Historical user turns contribute nothing: an earlier prompt's literal
//     instructions or uploads must not bleed into a later turn.
//   - A historical model turn contributes exactly its selected success image
//     (the continuation image), and none of its text.
//   - The new turn's text precedes its reference images so the model can
//     attribute the images to the accompanying description.
type ContextBuilder struct {
	logger        *slog.Logger
	maxImageBytes int
}

// NewContextBuilder creates a builder with the default 20MB image ceiling.
func NewContextBuilder(logger *slog.Logger) *ContextBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextBuilder{
		logger:        logger,
		maxImageBytes: MaxImageBytes,
	}
}

// Build produces the ordered contents for a new turn. It fails when the new
// turn itself carries no content or every supplied reference image is
// unusable; individually bad reference images are dropped with a warning.
// A continuation image from history does not count as new-turn content: the
// built contents must end with a user turn, so an empty prompt with no
// references is ErrEmptyContent even when history would contribute images.
func (b *ContextBuilder) Build(history []Message, prompt string, refs []UploadedImage) ([]*Content, error) {
	if err := ValidateUploadedImages(refs); err != nil {
		return nil, err
	}

	var contents []*Content

	for _, msg := range history {
		model, ok := msg.(*ModelMessage)
		if !ok {
			// User turns are never forwarded.
			continue
		}
		sel := model.SelectedImage()
		if sel == nil {
			continue
		}
		mimeType, data, err := DecodeDataURI(sel.Data)
		if err != nil {
			b.logger.Warn("skipping undecodable continuation image",
				"message_id", model.ID,
				"image_id", sel.ID,
				"error", err.Error(),
			)
			continue
		}
		contents = append(contents, &Content{
			Role:  RoleModel,
			Parts: []*Part{ImagePart(mimeType, data)},
		})
	}

	validRefs := b.filterReferenceImages(refs)
	if len(refs) > 0 && len(validRefs) == 0 {
		return nil, ErrNoValidImages
	}

	text := prompt
	if len(validRefs) > 1 && referencesImageOrdinals(prompt) {
		text = ordinalLegend(validRefs) + "\n\n" + prompt
	}

	parts := make([]*Part, 0, len(validRefs)+1)
	if text != "" {
		parts = append(parts, TextPart(text))
	}
	for _, ref := range validRefs {
		mimeType, data, err := DecodeDataURI(ref.Data)
		if err != nil {
			// filterReferenceImages already decoded the header; a payload
			// that fails here is dropped the same way.
			b.logger.Warn("skipping undecodable reference image",
				"image_id", ref.ID,
				"error", err.Error(),
			)
			continue
		}
		parts = append(parts, ImagePart(mimeType, data))
	}

	if len(parts) == 0 {
		return nil, ErrEmptyContent
	}

	contents = append(contents, &Content{Role: RoleUser, Parts: parts})
	return contents, nil
}

// filterReferenceImages drops images that fail validation, warning per drop.
func (b *ContextBuilder) filterReferenceImages(refs []UploadedImage) []UploadedImage {
	valid := make([]UploadedImage, 0, len(refs))
	for _, ref := range refs {
		mimeType, payload, err := ParseDataURI(ref.Data)
		if err != nil {
			b.logger.Warn("dropping invalid reference image",
				"image_id", ref.ID,
				"name", ref.Name,
				"error", err.Error(),
			)
			continue
		}
		if !ValidMIMETypes[mimeType] {
			b.logger.Warn("dropping reference image with unsupported MIME type",
				"image_id", ref.ID,
				"name", ref.Name,
				"mime_type", mimeType,
			)
			continue
		}
		if size := EstimatedDecodedSize(payload); size > b.maxImageBytes {
			b.logger.Warn("dropping oversized reference image",
				"image_id", ref.ID,
				"name", ref.Name,
				"estimated_bytes", size,
				"max_bytes", b.maxImageBytes,
			)
			continue
		}
		valid = append(valid, ref)
	}
	return valid
}

// Patterns that mean "image N" / "the Nth image", in Latin or CJK numerals.
var ordinalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:image|img|picture|photo)\s*#?\s*\d{1,2}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)\s+(?:image|img|picture|photo)\b`),
	regexp.MustCompile(`(?i)\b(?:first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\s+(?:image|img|picture|photo)\b`),
	regexp.MustCompile(`第?\s*[0-9一二三四五六七八九十]{1,3}\s*[张張幅枚]?\s*(?:图片|圖片|图|圖)`),
	regexp.MustCompile(`(?:图片|圖片|图|圖)\s*[0-9一二三四五六七八九十]{1,3}`),
}

// referencesImageOrdinals reports whether the prompt refers to reference
// images by position.
func referencesImageOrdinals(prompt string) bool {
	for _, p := range ordinalPatterns {
		if p.MatchString(prompt) {
			return true
		}
	}
	return false
}

// ordinalLegend renders a mapping from each ordinal to the corresponding
// upload so prompts like "combine image 2 into image 1" are unambiguous.
func ordinalLegend(refs []UploadedImage) string {
	var sb strings.Builder
	sb.WriteString("The attached images are numbered in upload order:")
	for i, ref := range refs {
		name := ref.Name
		if name == "" {
			name = "unnamed"
		}
		fmt.Fprintf(&sb, "\n- \"image %d\" refers to the uploaded image #%d (%s)", i+1, i+1, name)
	}
	return sb.String()
}
