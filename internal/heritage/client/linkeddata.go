// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GetHeritageCIDOC returns the CIDOC-CRM JSON-LD graph of an item.
func (c *Client) GetHeritageCIDOC(ctx context.Context, heritageID string, opts *GetOptions) (*Envelope[json.RawMessage], error) {
	req := getRequest("/heritage/"+url.PathEscape(heritageID)+"/cidoc", opts)
	req.Headers = map[string]string{"Accept": "application/ld+json"}

	env, err := DoJSON[json.RawMessage](ctx, c, req)
	if err != nil {
		return nil, fmt.Errorf("getting CIDOC for %q: %w", heritageID, err)
	}
	return env, nil
}

// GetHeritageLIDO returns the LIDO XML record of an item.
func (c *Client) GetHeritageLIDO(ctx context.Context, heritageID string, opts *GetOptions) (*Envelope[string], error) {
	req := getRequest("/heritage/"+url.PathEscape(heritageID)+"/lido", opts)
	req.Headers = map[string]string{"Accept": "application/xml"}

	env, err := c.DoText(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("getting LIDO for %q: %w", heritageID, err)
	}
	return env, nil
}

// ExportHeritageLIDO downloads a ZIP archive of LIDO records.
func (c *Client) ExportHeritageLIDO(ctx context.Context, params ExportParams) (*Envelope[[]byte], error) {
	env, err := c.DoBytes(ctx, Request{
		Method:  http.MethodGet,
		Path:    "/exports/lido",
		Query:   exportQuery(params),
		Headers: map[string]string{"Accept": "application/zip"},
	})
	if err != nil {
		return nil, fmt.Errorf("exporting LIDO: %w", err)
	}
	return env, nil
}
