// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"encoding/json"
	"strings"
)

// DoJSON performs req and decodes a JSON body into T. A body that does not
// decode into T leaves Data as the zero value, matching the dispatcher's
// lenient decoding.
func DoJSON[T any](ctx context.Context, c *Client, req Request) (*Envelope[T], error) {
	env, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert(env, func(p Payload) T {
		var v T
		if p.Kind == KindJSON && p.JSON != nil {
			if err := json.Unmarshal(p.JSON, &v); err != nil {
				var zero T
				return zero
			}
		}
		return v
	}), nil
}

// DoText performs req with a text decoding hint and returns the body as a string.
func (c *Client) DoText(ctx context.Context, req Request) (*Envelope[string], error) {
	if req.Expect == ExpectAuto {
		req.Expect = ExpectText
	}
	env, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert(env, Payload.String), nil
}

// DoBytes performs req with a binary decoding hint and returns the raw body.
func (c *Client) DoBytes(ctx context.Context, req Request) (*Envelope[[]byte], error) {
	if req.Expect == ExpectAuto {
		req.Expect = ExpectBinary
	}
	env, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert(env, Payload.Raw), nil
}

func convert[T any](env *Envelope[Payload], decode func(Payload) T) *Envelope[T] {
	out := &Envelope[T]{
		Status:      env.Status,
		Headers:     env.Headers,
		TraceID:     env.TraceID,
		RateLimit:   env.RateLimit,
		NotModified: env.NotModified,
	}
	if !env.NotModified {
		out.Data = decode(env.Data)
	}
	return out
}

// ParseNDJSON decodes newline-delimited JSON into records in order. Blank
// lines are skipped; the first malformed line fails the whole parse with an
// *NDJSONError.
func ParseNDJSON[T any](text string) ([]T, error) {
	records := make([]T, 0)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var record T
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, &NDJSONError{Line: i + 1, Err: err}
		}
		records = append(records, record)
	}
	return records, nil
}
