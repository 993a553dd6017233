package bananabatch

// InlineImage is raw image bytes attached to a request or response part.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// Part is a single piece of content: text or an inline image, never both.
type Part struct {
	Text        string
	InlineImage *InlineImage
}

// TextPart builds a text part.
func TextPart(text string) *Part {
	return &Part{Text: text}
}

// ImagePart builds an inline-image part.
func ImagePart(mimeType string, data []byte) *Part {
	return &Part{InlineImage: &InlineImage{MIMEType: mimeType, Data: data}}
}

// Content is one ordered turn of parts attributed to a role.
type Content struct {
	Role  Role
	Parts []*Part
}

// GenerateRequest is the provider-neutral shape handed to an adapter.
// Workers share a single request's Contents across attempts, so adapters
// must treat it as read-only.
type GenerateRequest struct {
	Model    string
	Contents []*Content
	Config   *ImageConfig
}

// FinishReason is the provider's reported reason a candidate stopped.
type FinishReason string

// FinishReasonSafety marks a content-policy refusal. Never retried.
const FinishReasonSafety FinishReason = "SAFETY"

// GenerateResponse is the provider-neutral result of a single generation
// call: the candidate's output parts in order, plus its finish reason.
type GenerateResponse struct {
	Parts        []*Part
	FinishReason FinishReason
}

// ImageParts returns the inline images of the response in order.
func (r *GenerateResponse) ImageParts() []*InlineImage {
	var images []*InlineImage
	for _, p := range r.Parts {
		if p.InlineImage != nil && len(p.InlineImage.Data) > 0 {
			images = append(images, p.InlineImage)
		}
	}
	return images
}

// TextParts returns the non-empty text parts of the response in order.
func (r *GenerateResponse) TextParts() []string {
	var texts []string
	for _, p := range r.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return texts
}

// SafetyRejected reports whether the provider refused the request for
// content-policy reasons.
func (r *GenerateResponse) SafetyRejected() bool {
	return r.FinishReason == FinishReasonSafety
}
