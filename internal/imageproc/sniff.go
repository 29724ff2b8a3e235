package imageproc

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Sniff inspects the raw bytes and returns their MIME type without
// parameters, e.g. "image/png" or "text/plain". Client-declared content
// types are never consulted.
func Sniff(data []byte) string {
	mt, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return strings.TrimSpace(mt)
}

// IsImage reports whether a sniffed MIME type denotes an image.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}
