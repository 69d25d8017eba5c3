// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ExportHeritageNDJSON streams the catalogue as NDJSON and decodes every
// line. A single malformed line fails the whole export.
func (c *Client) ExportHeritageNDJSON(ctx context.Context, params ExportParams) (*Envelope[[]HeritageItem], error) {
	env, err := c.DoText(ctx, Request{
		Method:  http.MethodGet,
		Path:    "/exports/heritage.ndjson",
		Query:   exportQuery(params),
		Headers: map[string]string{"Accept": "application/x-ndjson"},
	})
	if err != nil {
		return nil, fmt.Errorf("exporting NDJSON: %w", err)
	}

	out := &Envelope[[]HeritageItem]{
		Status:      env.Status,
		Headers:     env.Headers,
		TraceID:     env.TraceID,
		RateLimit:   env.RateLimit,
		NotModified: env.NotModified,
	}
	if env.NotModified {
		return out, nil
	}

	records, err := ParseNDJSON[HeritageItem](env.Data)
	if err != nil {
		return nil, fmt.Errorf("exporting NDJSON: %w", err)
	}
	out.Data = records
	return out, nil
}

// ExportHeritageZIP downloads the catalogue as a ZIP archive.
func (c *Client) ExportHeritageZIP(ctx context.Context, params ExportParams) (*Envelope[[]byte], error) {
	env, err := c.DoBytes(ctx, Request{
		Method:  http.MethodGet,
		Path:    "/exports/heritage.zip",
		Query:   exportQuery(params),
		Headers: map[string]string{"Accept": "application/zip"},
	})
	if err != nil {
		return nil, fmt.Errorf("exporting ZIP: %w", err)
	}
	return env, nil
}

// ExportHeritageGeoJSON exports the catalogue as a single FeatureCollection.
func (c *Client) ExportHeritageGeoJSON(ctx context.Context, params ExportParams) (*Envelope[*FeatureCollection], error) {
	env, err := DoJSON[*FeatureCollection](ctx, c, Request{
		Method:  http.MethodGet,
		Path:    "/exports/heritage.geojson",
		Query:   exportQuery(params),
		Headers: map[string]string{"Accept": "application/geo+json"},
	})
	if err != nil {
		return nil, fmt.Errorf("exporting GeoJSON: %w", err)
	}
	return env, nil
}

// SubmitCorrection proposes a fix to a catalogue field.
func (c *Client) SubmitCorrection(ctx context.Context, heritageID string, correction Correction) (*Envelope[*CorrectionReceipt], error) {
	env, err := DoJSON[*CorrectionReceipt](ctx, c, Request{
		Method: http.MethodPost,
		Path:   "/heritage/" + url.PathEscape(heritageID) + "/corrections",
		Body:   correction,
	})
	if err != nil {
		return nil, fmt.Errorf("submitting correction for %q: %w", heritageID, err)
	}
	return env, nil
}

func exportQuery(params ExportParams) map[string]any {
	return map[string]any{
		"collection":    optString(params.Collection),
		"type":          params.Types,
		"country":       optString(params.Country),
		"updated_since": params.UpdatedSince,
		"fields":        params.Fields,
		"limit":         optInt(params.Limit),
	}
}
