// Package contenttype classifies response Content-Type headers for the heritage client.
package contenttype

import (
	"mime"
	"strings"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON    Category = "json"
	NDJSON  Category = "ndjson"
	XML     Category = "xml"
	Text    Category = "text"
	Binary  Category = "binary"
	Unknown Category = "unknown"
)

// streaming media types carry one JSON document per line and are read as text.
var streamingTypes = map[string]struct{}{
	"application/x-ndjson":    {},
	"application/ndjson":      {},
	"application/jsonl":       {},
	"application/x-jsonl":     {},
	"application/jsonlines":   {},
	"application/x-jsonlines": {},
}

// mediaTypeOf returns the lower-cased media type without parameters.
// Falls back to manual trimming for malformed values.
func mediaTypeOf(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
		if i := strings.IndexByte(mediaType, ';'); i >= 0 {
			mediaType = mediaType[:i]
		}
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// Classify returns the content category for a Content-Type header value.
// Streaming JSON variants are checked before the generic +json suffix so
// that bulk dumps are never parsed as a single document.
func Classify(contentType string) Category {
	mediaType := mediaTypeOf(contentType)
	if mediaType == "" {
		return Unknown
	}

	if mediaType == "application/zip" || mediaType == "application/octet-stream" {
		return Binary
	}

	if _, ok := streamingTypes[mediaType]; ok {
		return NDJSON
	}

	if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
		return JSON
	}

	if mediaType == "application/xml" || strings.HasSuffix(mediaType, "+xml") || mediaType == "text/xml" {
		return XML
	}

	if strings.HasPrefix(mediaType, "text/") {
		return Text
	}

	return Unknown
}

// IsJSON returns true if the content type is a single JSON document.
func IsJSON(contentType string) bool {
	return Classify(contentType) == JSON
}

// IsForm returns true for URL-encoded or multipart form content types.
func IsForm(contentType string) bool {
	mediaType := mediaTypeOf(contentType)
	return mediaType == "application/x-www-form-urlencoded" || strings.HasPrefix(mediaType, "multipart/")
}
