package media

import (
	"fmt"
	"net/http"

	"github.com/elnormous/contenttype"

	"github.com/interera-ai/backend/internal/httperr"
)

// Attachment is one validated upload, ready to forward to the model.
type Attachment struct {
	Data []byte
	Type string
}

var allowed = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Validate checks a single upload against the accepted image types. An empty
// declared type falls back to fallback before the check. The returned
// Attachment carries the canonical type with any parameters stripped.
func Validate(declared, fallback string, data []byte) (Attachment, error) {
	if declared == "" {
		declared = fallback
	}
	mt := contenttype.NewMediaType(declared)
	canonical := mt.Type + "/" + mt.Subtype
	if _, ok := allowed[canonical]; !ok {
		return Attachment{}, httperr.UnsupportedMediaType(
			fmt.Sprintf("unsupported content type %q, allowed: image/jpeg, image/png, image/webp", declared))
	}
	if len(data) == 0 {
		return Attachment{}, httperr.BadRequest("empty file")
	}
	return Attachment{Data: data, Type: canonical}, nil
}

// Detect sniffs the media type from magic bytes, reporting only the image
// types the service hands out; anything else is application/octet-stream.
func Detect(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "image/png"
	case "image/jpeg":
		return "image/jpeg"
	case "image/webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
