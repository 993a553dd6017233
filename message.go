package bananabatch

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ImageStatus marks whether a generation slot produced an image or failed.
type ImageStatus string

const (
	ImageStatusSuccess ImageStatus = "success"
	ImageStatusError   ImageStatus = "error"
)

// GeneratedImage is the result of a single generation slot. Error-status
// images carry an empty Data/MIMEType and exist only to mark a failed slot.
type GeneratedImage struct {
	// ID uniquely identifies the image within a conversation
	ID string

	// Data is the image encoded as a data URI (data:<mime>;base64,<payload>)
	Data string

	// MIMEType of the image (e.g., "image/png")
	MIMEType string

	// Status distinguishes real images from failed-slot placeholders
	Status ImageStatus
}

// NewGeneratedImage wraps raw image bytes in a success-status GeneratedImage.
func NewGeneratedImage(data []byte, mimeType string) GeneratedImage {
	return GeneratedImage{
		ID:       uuid.NewString(),
		Data:     FormatDataURI(mimeType, data),
		MIMEType: mimeType,
		Status:   ImageStatusSuccess,
	}
}

// NewErrorImage returns the placeholder emitted for a slot whose every
// attempt failed.
func NewErrorImage() GeneratedImage {
	return GeneratedImage{
		ID:     uuid.NewString(),
		Status: ImageStatusError,
	}
}

// UploadedImage is a user-supplied reference image, immutable once created.
type UploadedImage struct {
	// ID uniquely identifies the upload
	ID string

	// Data is the image encoded as a data URI
	Data string

	// MIMEType of the image
	MIMEType string

	// Name is the original filename, if known
	Name string
}

// NewUploadedImage wraps raw image bytes in an UploadedImage.
func NewUploadedImage(data []byte, mimeType, name string) UploadedImage {
	return UploadedImage{
		ID:       uuid.NewString(),
		Data:     FormatDataURI(mimeType, data),
		MIMEType: mimeType,
		Name:     name,
	}
}

// Message is a single turn in a conversation. It is implemented by
// UserMessage and ModelMessage so that role-specific fields (uploads on user
// turns, image selection on model turns) cannot appear on the wrong variant.
type Message interface {
	MessageID() string
	Role() Role
}

// MessageSettings records the generation settings a model turn was produced
// with.
type MessageSettings struct {
	AspectRatio AspectRatio
}

// UserMessage is a user-authored turn: prompt text plus optional uploads.
type UserMessage struct {
	ID             string
	Text           string
	UploadedImages []UploadedImage
	Timestamp      time.Time
}

// NewUserMessage creates a user turn with a fresh ID.
func NewUserMessage(text string, uploads []UploadedImage) *UserMessage {
	return &UserMessage{
		ID:             uuid.NewString(),
		Text:           text,
		UploadedImages: uploads,
		Timestamp:      time.Now(),
	}
}

func (m *UserMessage) MessageID() string { return m.ID }
func (m *UserMessage) Role() Role        { return RoleUser }

// ModelMessage is a model-authored turn. It starts as an empty placeholder
// and is filled in incrementally by StreamSink callbacks while a batch runs;
// once the batch finishes it is plain caller-owned state.
type ModelMessage struct {
	ID string

	// TextVariations holds every distinct text the model produced for this
	// turn, in insertion order. TextVariations[0] is the displayed text.
	TextVariations []string

	// Images holds one entry per completed slot, success or error.
	Images []GeneratedImage

	// SelectedImageID marks the image the user chose to carry forward into
	// later turns. Only a selection pointing at a success-status image is
	// honored; see SelectedImage.
	SelectedImageID string

	Settings  *MessageSettings
	Timestamp time.Time
	IsError   bool
}

// NewModelMessage creates an empty model-turn placeholder.
func NewModelMessage() *ModelMessage {
	return &ModelMessage{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
	}
}

func (m *ModelMessage) MessageID() string { return m.ID }
func (m *ModelMessage) Role() Role        { return RoleModel }

// Text returns the displayed text: the first recorded variation.
func (m *ModelMessage) Text() string {
	if len(m.TextVariations) == 0 {
		return ""
	}
	return m.TextVariations[0]
}

// AddTextVariation appends a text variation, dropping duplicates and empty
// strings.
func (m *ModelMessage) AddTextVariation(text string) {
	if text == "" {
		return
	}
	for _, v := range m.TextVariations {
		if v == text {
			return
		}
	}
	m.TextVariations = append(m.TextVariations, text)
}

// AddImage appends a slot result.
func (m *ModelMessage) AddImage(img GeneratedImage) {
	m.Images = append(m.Images, img)
}

// SelectedImage resolves SelectedImageID against Images. A selection that
// points at a missing image, or at an error placeholder, is void and
// treated as unset.
func (m *ModelMessage) SelectedImage() *GeneratedImage {
	if m.SelectedImageID == "" {
		return nil
	}
	for i := range m.Images {
		if m.Images[i].ID == m.SelectedImageID {
			if m.Images[i].Status != ImageStatusSuccess {
				return nil
			}
			return &m.Images[i]
		}
	}
	return nil
}
