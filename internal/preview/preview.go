// Package preview renders inline previews for image files.
package preview

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrUnreadable is returned when an image candidate carries no readable
// content. Intake records it on the file like a validation failure.
var ErrUnreadable = errors.New("unable to read file content")

// IsImage reports whether the MIME type denotes an image.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// Generate produces a base64 data URL for image content. Non-image types
// resolve to an empty preview without touching the content.
func Generate(mimeType string, data []byte) (string, error) {
	if !IsImage(mimeType) {
		return "", nil
	}
	if len(data) == 0 {
		return "", ErrUnreadable
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}
