// Package validate decides whether a candidate file is acceptable for upload.
package validate

import (
	"fmt"
	"sort"
)

// MaxFileSize is the default upload size ceiling.
const MaxFileSize = 50 * 1024 * 1024 // 50 MiB

// DefaultAcceptedTypes is the default MIME type allow-list.
var DefaultAcceptedTypes = []string{
	"image/jpeg", "image/png", "image/gif", "image/webp",
	"application/pdf", "text/plain", "text/csv",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Result is the outcome of validating a single candidate file.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Validator checks candidate files against an allow-list and a size ceiling.
type Validator struct {
	accepted map[string]struct{}
	maxSize  int64
}

// New creates a Validator. Empty acceptedTypes or a non-positive maxSize
// fall back to the defaults.
func New(acceptedTypes []string, maxSize int64) *Validator {
	if len(acceptedTypes) == 0 {
		acceptedTypes = DefaultAcceptedTypes
	}
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	accepted := make(map[string]struct{}, len(acceptedTypes))
	for _, t := range acceptedTypes {
		accepted[t] = struct{}{}
	}
	return &Validator{accepted: accepted, maxSize: maxSize}
}

// Check validates a candidate by MIME type and size. The type check takes
// precedence: an unsupported oversize file reports the type error.
func (v *Validator) Check(mimeType string, size int64) Result {
	if _, ok := v.accepted[mimeType]; !ok {
		return Result{Error: fmt.Sprintf("File type %s is not supported", mimeType)}
	}
	if size > v.maxSize {
		return Result{Error: fmt.Sprintf("File size must be less than %s", sizeLabel(v.maxSize))}
	}
	return Result{Valid: true}
}

// sizeLabel renders a byte ceiling the way it is shown to users: whole
// megabytes or kilobytes where possible, raw bytes otherwise.
func sizeLabel(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case n >= mb && n%mb == 0:
		return fmt.Sprintf("%dMB", n/mb)
	case n >= kb && n%kb == 0:
		return fmt.Sprintf("%dKB", n/kb)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// Accepted returns the allow-list as a sorted slice, for reporting to
// clients.
func (v *Validator) Accepted() []string {
	out := make([]string, 0, len(v.accepted))
	for t := range v.accepted {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
