package capture

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const defaultMIMEType = "image/jpeg"

// ExtractBase64 strips the scheme prefix of a data URL, i.e. everything up to
// and including the first comma. Strings without a comma are returned as is.
func ExtractBase64(dataURL string) string {
	if i := strings.IndexByte(dataURL, ','); i >= 0 {
		return dataURL[i+1:]
	}
	return dataURL
}

// ParseDataURL decodes a "data:image/...;base64,<data>" string. The payload is
// not validated as an image; malformed images fail downstream.
func ParseDataURL(dataURL string) (Image, error) {
	payload := ExtractBase64(dataURL)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("invalid base64 image data: %w", err)
	}

	return Image{Data: data, MIMEType: mimeTypeOf(dataURL)}, nil
}

// mimeTypeOf returns the media type declared in a data URL header, falling
// back to image/jpeg when there is none.
func mimeTypeOf(dataURL string) string {
	header, _, found := strings.Cut(dataURL, ",")
	if !found || !strings.HasPrefix(header, "data:") {
		return defaultMIMEType
	}
	mediaType, _, _ := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
	if mediaType == "" {
		return defaultMIMEType
	}
	return mediaType
}
