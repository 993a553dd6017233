package bananabatch

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDataURI is returned when a string is not a base64 data URI.
var ErrInvalidDataURI = errors.New("invalid data URI")

// FormatDataURI encodes raw bytes as a data:<mime>;base64,<payload> string.
func FormatDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a data URI into its MIME type and base64 payload
// without decoding the payload.
func ParseDataURI(uri string) (mimeType, payload string, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", "", fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("%w: missing payload separator", ErrInvalidDataURI)
	}
	mimeType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", "", fmt.Errorf("%w: not base64-encoded", ErrInvalidDataURI)
	}
	if mimeType == "" || payload == "" {
		return "", "", fmt.Errorf("%w: empty MIME type or payload", ErrInvalidDataURI)
	}
	return mimeType, payload, nil
}

// DecodeDataURI parses a data URI and decodes its payload into raw bytes.
func DecodeDataURI(uri string) (mimeType string, data []byte, err error) {
	mimeType, payload, err := ParseDataURI(uri)
	if err != nil {
		return "", nil, err
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mimeType, data, nil
}

// EstimatedDecodedSize returns the approximate byte length of a base64
// payload once decoded (len*3/4), cheap enough to run on every upload.
func EstimatedDecodedSize(base64Payload string) int {
	return len(base64Payload) * 3 / 4
}
