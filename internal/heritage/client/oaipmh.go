// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"fmt"
	"net/http"
)

// OAIPMH issues an OAI-PMH 2.0 request and returns the XML response.
// OAI-PMH reports protocol errors inside a 200 response; parse the body to
// detect them.
func (c *Client) OAIPMH(ctx context.Context, params OAIParams) (*Envelope[string], error) {
	if params.Verb == "" {
		return nil, fmt.Errorf("OAI-PMH verb is required")
	}

	query := map[string]any{"verb": params.Verb}
	if params.ResumptionToken != "" {
		// resumptionToken is an exclusive argument.
		query["resumptionToken"] = params.ResumptionToken
	} else {
		query["identifier"] = optString(params.Identifier)
		query["metadataPrefix"] = optString(params.MetadataPrefix)
		query["set"] = optString(params.Set)
		query["from"] = optString(params.From)
		query["until"] = optString(params.Until)
	}

	env, err := c.DoText(ctx, Request{
		Method:  http.MethodGet,
		Path:    "/oai",
		Query:   query,
		Headers: map[string]string{"Accept": "text/xml"},
	})
	if err != nil {
		return nil, fmt.Errorf("OAI-PMH %s: %w", params.Verb, err)
	}
	return env, nil
}
