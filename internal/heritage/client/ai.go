// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// SummarizeHeritage asks the service for a generated summary of an item.
func (c *Client) SummarizeHeritage(ctx context.Context, heritageID string, req SummarizeRequest) (*Envelope[*Summary], error) {
	env, err := DoJSON[*Summary](ctx, c, Request{
		Method: http.MethodPost,
		Path:   "/ai/heritage/" + url.PathEscape(heritageID) + "/summary",
		Body:   req,
	})
	if err != nil {
		return nil, fmt.Errorf("summarizing %q: %w", heritageID, err)
	}
	return env, nil
}

// AskHeritage answers a free-text question grounded in catalogue records.
func (c *Client) AskHeritage(ctx context.Context, req AskRequest) (*Envelope[*Answer], error) {
	if req.Question == "" {
		return nil, fmt.Errorf("question is required")
	}
	env, err := DoJSON[*Answer](ctx, c, Request{
		Method: http.MethodPost,
		Path:   "/ai/ask",
		Body:   req,
	})
	if err != nil {
		return nil, fmt.Errorf("asking heritage: %w", err)
	}
	return env, nil
}
