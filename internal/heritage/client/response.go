// Package client provides HTTP client functionality for the heritage API
package client

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/heritage-client/internal/heritage/contenttype"
)

// Response header names read by the dispatcher.
const (
	HeaderTraceID            = "X-Trace-Id"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

// BodyKind is the decoding strategy chosen for a response body.
type BodyKind int

const (
	KindJSON BodyKind = iota
	KindText
	KindBinary
)

func (k BodyKind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	}
	return "unknown"
}

// Expect is a caller hint for how to decode the response body.
type Expect int

const (
	// ExpectAuto decodes according to the response Content-Type.
	ExpectAuto Expect = iota
	// ExpectText forces text decoding unless the server declares JSON.
	ExpectText
	// ExpectBinary forces binary decoding unless the server declares JSON.
	ExpectBinary
)

// RateLimit is the server's per-request quota snapshot.
type RateLimit struct {
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// Envelope wraps a successful or not-modified response.
type Envelope[T any] struct {
	Status int
	// Data is the zero value when NotModified is set or the response had no content.
	Data      T
	Headers   http.Header
	TraceID   string
	RateLimit *RateLimit
	// NotModified marks a 304 answer to a conditional request.
	NotModified bool
}

// Payload is an untyped response body. Exactly one of JSON, Text or Bytes is
// meaningful, selected by Kind.
type Payload struct {
	Kind BodyKind
	// JSON is nil when the body was empty or not valid JSON.
	JSON  json.RawMessage
	Text  string
	Bytes []byte
}

// String returns the body as text regardless of how it was decoded.
func (p Payload) String() string {
	switch p.Kind {
	case KindJSON:
		return string(p.JSON)
	case KindBinary:
		return string(p.Bytes)
	}
	return p.Text
}

// Raw returns the body as bytes regardless of how it was decoded.
func (p Payload) Raw() []byte {
	switch p.Kind {
	case KindJSON:
		return []byte(p.JSON)
	case KindText:
		return []byte(p.Text)
	}
	return p.Bytes
}

// value returns the decoded body as json.RawMessage, string or []byte.
func (p Payload) value() any {
	switch p.Kind {
	case KindJSON:
		if p.JSON == nil {
			return nil
		}
		return p.JSON
	case KindBinary:
		return p.Bytes
	}
	return p.Text
}

// decodeStrategy maps a declared Content-Type and caller hint to a BodyKind.
// A JSON content type always wins over the hint.
func decodeStrategy(contentType string, expect Expect) BodyKind {
	var inferred BodyKind
	switch contenttype.Classify(contentType) {
	case contenttype.JSON:
		return KindJSON
	case contenttype.Binary:
		inferred = KindBinary
	default:
		// NDJSON, XML, text and unknown types are all read as text.
		inferred = KindText
	}

	switch expect {
	case ExpectText:
		return KindText
	case ExpectBinary:
		return KindBinary
	}
	return inferred
}

// emptyPayload is the zero value for kind, used for 204 responses.
func emptyPayload(kind BodyKind) Payload {
	p := Payload{Kind: kind}
	if kind == KindBinary {
		p.Bytes = []byte{}
	}
	return p
}

// readPayload materializes body. Parse failures degrade to the empty value
// for kind; a failed read is returned alongside that empty value so the
// caller can tell cancellation apart from a malformed body.
func readPayload(body io.Reader, kind BodyKind) (Payload, error) {
	p := emptyPayload(kind)

	data, err := io.ReadAll(body)
	if err != nil {
		return p, err
	}

	switch kind {
	case KindJSON:
		if json.Valid(data) {
			p.JSON = json.RawMessage(data)
		}
	case KindText:
		p.Text = string(data)
	case KindBinary:
		p.Bytes = data
	}
	return p, nil
}

// parseRateLimit returns a snapshot only when all three headers are present
// and integral.
func parseRateLimit(h http.Header) *RateLimit {
	limit, ok := headerInt(h, HeaderRateLimitLimit)
	if !ok {
		return nil
	}
	remaining, ok := headerInt(h, HeaderRateLimitRemaining)
	if !ok {
		return nil
	}
	reset, ok := headerInt(h, HeaderRateLimitReset)
	if !ok {
		return nil
	}
	return &RateLimit{Limit: limit, Remaining: remaining, Reset: reset}
}

func headerInt(h http.Header, name string) (int64, bool) {
	raw := strings.TrimSpace(h.Get(name))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseRetryAfter accepts delay-seconds or an HTTP date. Dates in the past
// yield zero; anything else unparseable yields nil.
func parseRetryAfter(value string, now time.Time) *int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		if secs < 0 {
			return nil
		}
		return &secs
	}

	at, err := http.ParseTime(value)
	if err != nil {
		return nil
	}
	secs := int64(math.Ceil(at.Sub(now).Seconds()))
	if secs < 0 {
		secs = 0
	}
	return &secs
}
