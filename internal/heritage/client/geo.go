// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// String formats the box as "minLon,minLat,maxLon,maxLat".
func (b BBox) String() string {
	parts := []string{
		strconv.FormatFloat(b.MinLon, 'f', -1, 64),
		strconv.FormatFloat(b.MinLat, 'f', -1, 64),
		strconv.FormatFloat(b.MaxLon, 'f', -1, 64),
		strconv.FormatFloat(b.MaxLat, 'f', -1, 64),
	}
	return strings.Join(parts, ",")
}

// GetHeritageGeoJSON returns catalogue items as a GeoJSON FeatureCollection.
func (c *Client) GetHeritageGeoJSON(ctx context.Context, params GeoParams) (*Envelope[*FeatureCollection], error) {
	env, err := DoJSON[*FeatureCollection](ctx, c, Request{
		Method:  http.MethodGet,
		Path:    "/heritage/geo",
		Query:   geoQuery(params),
		Headers: map[string]string{"Accept": "application/geo+json"},
	})
	if err != nil {
		return nil, fmt.Errorf("getting heritage GeoJSON: %w", err)
	}
	return env, nil
}

// NearbyHeritage lists items within a radius of a point, nearest first.
func (c *Client) NearbyHeritage(ctx context.Context, params NearbyParams) (*Envelope[*NearbyResult], error) {
	env, err := DoJSON[*NearbyResult](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/heritage/nearby",
		Query: map[string]any{
			"lat":    params.Lat,
			"lon":    params.Lon,
			"radius": optInt(params.RadiusMeters),
			"type":   params.Types,
			"limit":  optInt(params.Limit),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching nearby heritage: %w", err)
	}
	return env, nil
}

func geoQuery(params GeoParams) map[string]any {
	q := map[string]any{
		"type":       params.Types,
		"collection": optString(params.Collection),
		"limit":      optInt(params.Limit),
	}
	if params.BBox != nil {
		q["bbox"] = params.BBox.String()
	}
	return q
}
