// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

var citationAccept = map[CitationFormat]string{
	CitationBibTeX: "application/x-bibtex",
	CitationRIS:    "application/x-research-info-systems",
}

// GetHeritageCitation returns a formatted citation together with the
// attribution text the data source requires.
func (c *Client) GetHeritageCitation(ctx context.Context, heritageID string, params CitationParams) (*Envelope[*Citation], error) {
	env, err := DoJSON[*Citation](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/heritage/" + url.PathEscape(heritageID) + "/citation",
		Query: map[string]any{
			"style": optString(params.Style),
			"lang":  optString(params.Lang),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting citation for %q: %w", heritageID, err)
	}
	return env, nil
}

// GetHeritageCitationText returns a BibTeX or RIS citation as text.
func (c *Client) GetHeritageCitationText(ctx context.Context, heritageID string, format CitationFormat) (*Envelope[string], error) {
	accept, ok := citationAccept[format]
	if !ok {
		return nil, fmt.Errorf("unsupported citation format %q", format)
	}
	env, err := c.DoText(ctx, Request{
		Method:  http.MethodGet,
		Path:    "/heritage/" + url.PathEscape(heritageID) + "/citation",
		Query:   map[string]any{"format": string(format)},
		Headers: map[string]string{"Accept": accept},
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s citation for %q: %w", format, heritageID, err)
	}
	return env, nil
}
