// Package client provides HTTP client functionality for the heritage API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// Request header names and values attached by the dispatcher.
const (
	HeaderAttribution     = "X-Heritage-Attribution"
	HeaderPlan            = "X-Heritage-Plan"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Request describes a single API call.
type Request struct {
	Method string
	Path   string
	// Query values may be scalars, pointers or slices. Nil entries are dropped
	// and slices repeat the key.
	Query map[string]any
	// Body is sent untouched when it is a string, []byte, io.Reader,
	// url.Values or *FormData. Any other non-nil value is JSON-encoded.
	Body    any
	Headers map[string]string
	// Conditional request tokens, applied after every other header layer.
	IfNoneMatch     string
	IfModifiedSince string
	Expect          Expect
}

// FormData is a pre-encoded multipart/form-data body.
type FormData struct {
	contentType string
	body        []byte
}

// NewFormData builds a multipart body by calling build with a writer.
func NewFormData(build func(w *multipart.Writer) error) (*FormData, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := build(w); err != nil {
		return nil, fmt.Errorf("building form data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing form data: %w", err)
	}
	return &FormData{contentType: w.FormDataContentType(), body: buf.Bytes()}, nil
}

// ContentType returns the multipart content type including the boundary.
func (f *FormData) ContentType() string {
	return f.contentType
}

// Do performs exactly one HTTP round trip for req. It returns an envelope for
// 2xx and 304 responses and an *APIError for every other status. Transport
// and cancellation errors are returned wrapped, never as *APIError.
func (c *Client) Do(ctx context.Context, req Request) (*Envelope[Payload], error) {
	start := time.Now()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	u, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	body, bodyContentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.prepareHeaders(httpReq.Header, req, bodyContentType)

	c.logger.Debug(ctx, "Making request", map[string]interface{}{
		"operation": "request",
		"method":    method,
		"url":       c.redactURL(u.String()),
	})

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug(ctx, "Request failed", map[string]interface{}{
			"operation":   "request",
			"method":      method,
			"path":        u.Path,
			"error":       err.Error(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	env, err := c.classify(ctx, resp, req.Expect)

	c.logger.Debug(ctx, "Response received", map[string]interface{}{
		"operation":   "request",
		"method":      method,
		"path":        u.Path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return env, err
}

// encodeBody returns the request payload and the content type implied by its
// form. JSON-encoded bodies report contentTypeJSON; raw strings, bytes and
// readers report none.
func encodeBody(body any) (io.Reader, string, error) {
	if isNil(body) {
		return nil, "", nil
	}

	switch b := body.(type) {
	case string:
		return strings.NewReader(b), "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case url.Values:
		return strings.NewReader(b.Encode()), contentTypeForm, nil
	case *FormData:
		return bytes.NewReader(b.body), b.contentType, nil
	case io.Reader:
		return b, "", nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}
	return bytes.NewReader(data), contentTypeJSON, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// prepareHeaders layers baseline, configured, per-call and conditional headers
// in that order, then fills in Content-Type when nothing set it explicitly.
func (c *Client) prepareHeaders(h http.Header, req Request, bodyContentType string) {
	h.Set("Accept", "application/json")
	h.Set(HeaderAttribution, string(c.attribution))
	if c.plan == PlanCommercial {
		h.Set(HeaderPlan, string(c.plan))
	}
	h.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		h.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range c.headers {
		h.Set(k, v)
	}

	for k, v := range req.Headers {
		h.Set(k, v)
	}

	if req.IfNoneMatch != "" {
		h.Set(HeaderIfNoneMatch, req.IfNoneMatch)
	}
	if req.IfModifiedSince != "" {
		h.Set(HeaderIfModifiedSince, req.IfModifiedSince)
	}

	if bodyContentType != "" && h.Get("Content-Type") == "" {
		h.Set("Content-Type", bodyContentType)
	}
}

// classify turns an HTTP response into an envelope or an *APIError.
func (c *Client) classify(ctx context.Context, resp *http.Response, expect Expect) (*Envelope[Payload], error) {
	if resp.StatusCode == http.StatusNotModified {
		return &Envelope[Payload]{
			Status:      resp.StatusCode,
			Headers:     resp.Header,
			TraceID:     resp.Header.Get(HeaderTraceID),
			RateLimit:   parseRateLimit(resp.Header),
			NotModified: true,
		}, nil
	}

	kind := decodeStrategy(resp.Header.Get("Content-Type"), expect)

	var payload Payload
	if resp.StatusCode == http.StatusNoContent {
		payload = emptyPayload(kind)
	} else {
		var err error
		payload, err = readPayload(resp.Body, kind)
		if err != nil {
			// Cancellation fails the call; other read failures keep the empty payload.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("reading response: %w", ctxErr)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("reading response: %w", err)
			}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.newAPIError(resp, payload)
	}

	return &Envelope[Payload]{
		Status:    resp.StatusCode,
		Data:      payload,
		Headers:   resp.Header,
		TraceID:   resp.Header.Get(HeaderTraceID),
		RateLimit: parseRateLimit(resp.Header),
	}, nil
}

// errorEnvelope is the server's JSON error shape.
type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Hint    string `json:"hint"`
		Doc     string `json:"doc"`
		TraceID string `json:"trace_id"`
	} `json:"error"`
}

func (c *Client) newAPIError(resp *http.Response, payload Payload) *APIError {
	apiErr := &APIError{
		Status:     resp.StatusCode,
		Code:       CodeInternalError,
		Message:    http.StatusText(resp.StatusCode),
		TraceID:    resp.Header.Get(HeaderTraceID),
		RetryAfter: parseRetryAfter(resp.Header.Get(HeaderRetryAfter), c.now()),
		RateLimit:  parseRateLimit(resp.Header),
		Body:       payload.value(),
	}

	if payload.Kind != KindJSON || payload.JSON == nil {
		return apiErr
	}

	var env errorEnvelope
	if err := json.Unmarshal(payload.JSON, &env); err != nil || env.Error == nil {
		return apiErr
	}

	if env.Error.Code != "" {
		apiErr.Code = env.Error.Code
	}
	if env.Error.Message != "" {
		apiErr.Message = env.Error.Message
	}
	apiErr.Hint = env.Error.Hint
	apiErr.Doc = env.Error.Doc
	if env.Error.TraceID != "" {
		apiErr.TraceID = env.Error.TraceID
	}
	return apiErr
}

// sensitiveParams are query keys whose values never reach the logs.
var sensitiveParams = map[string]bool{
	"api_key":      true,
	"apikey":       true,
	"token":        true,
	"access_token": true,
}

// redactURL masks credential query values, and any query value equal to the
// configured API key, for logging. The path is left untouched.
func (c *Client) redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL
	}

	pairs := strings.Split(u.RawQuery, "&")
	for i, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		if sensitiveParams[key] {
			pairs[i] = key + "=****"
			continue
		}
		if c.apiKey == "" {
			continue
		}
		if v, err := url.QueryUnescape(value); err == nil && v == c.apiKey {
			pairs[i] = key + "=****"
		}
	}
	u.RawQuery = strings.Join(pairs, "&")
	return u.String()
}
