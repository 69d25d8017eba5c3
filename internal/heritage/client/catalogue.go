// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// SearchHeritage searches the catalogue.
func (c *Client) SearchHeritage(ctx context.Context, params SearchParams) (*Envelope[*SearchResult], error) {
	env, err := DoJSON[*SearchResult](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/heritage",
		Query: map[string]any{
			"q":             optString(params.Q),
			"type":          params.Types,
			"collection":    optString(params.Collection),
			"institution":   optString(params.Institution),
			"country":       optString(params.Country),
			"keyword":       params.Keywords,
			"period_from":   params.PeriodFrom,
			"period_to":     params.PeriodTo,
			"has_media":     params.HasMedia,
			"updated_since": params.UpdatedSince,
			"sort":          optString(params.Sort),
			"lang":          optString(params.Lang),
			"cursor":        optString(params.Cursor),
			"limit":         optInt(params.Limit),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching heritage: %w", err)
	}
	return env, nil
}

// GetHeritage fetches a single catalogue record. Pass the ETag of a previous
// response in opts.IfNoneMatch to receive a NotModified envelope when it is unchanged.
func (c *Client) GetHeritage(ctx context.Context, id string, opts *GetOptions) (*Envelope[*HeritageItem], error) {
	env, err := DoJSON[*HeritageItem](ctx, c, getRequest("/heritage/"+url.PathEscape(id), opts))
	if err != nil {
		return nil, fmt.Errorf("getting heritage %q: %w", id, err)
	}
	return env, nil
}

// ListHeritageChanges reads the catalogue change feed.
func (c *Client) ListHeritageChanges(ctx context.Context, params ChangesParams) (*Envelope[*ChangeFeed], error) {
	var since any
	if !params.Since.IsZero() {
		since = params.Since.UTC().Format(time.RFC3339)
	}
	env, err := DoJSON[*ChangeFeed](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/heritage/changes",
		Query: map[string]any{
			"since":  since,
			"cursor": optString(params.Cursor),
			"limit":  optInt(params.Limit),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing heritage changes: %w", err)
	}
	return env, nil
}

// GetHeritageStats returns catalogue aggregations.
func (c *Client) GetHeritageStats(ctx context.Context, params StatsParams) (*Envelope[*Stats], error) {
	env, err := DoJSON[*Stats](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/heritage/stats",
		Query: map[string]any{
			"group_by":   optString(params.GroupBy),
			"collection": optString(params.Collection),
			"country":    optString(params.Country),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting heritage stats: %w", err)
	}
	return env, nil
}

// ListCollections lists the curated collections.
func (c *Client) ListCollections(ctx context.Context, params ListParams) (*Envelope[*CollectionList], error) {
	env, err := DoJSON[*CollectionList](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/collections",
		Query: map[string]any{
			"cursor": optString(params.Cursor),
			"limit":  optInt(params.Limit),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return env, nil
}

// GetCollection fetches one collection.
func (c *Client) GetCollection(ctx context.Context, id string, opts *GetOptions) (*Envelope[*Collection], error) {
	env, err := DoJSON[*Collection](ctx, c, getRequest("/collections/"+url.PathEscape(id), opts))
	if err != nil {
		return nil, fmt.Errorf("getting collection %q: %w", id, err)
	}
	return env, nil
}

// getRequest builds a GET for a single resource honoring GetOptions.
func getRequest(path string, opts *GetOptions) Request {
	req := Request{Method: http.MethodGet, Path: path}
	if opts == nil {
		return req
	}
	req.Query = map[string]any{
		"lang":   optString(opts.Lang),
		"fields": opts.Fields,
	}
	req.IfNoneMatch = opts.IfNoneMatch
	req.IfModifiedSince = opts.IfModifiedSince
	return req
}

// optString maps the empty string to an omitted query parameter.
func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// optInt maps zero to an omitted query parameter.
func optInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
