// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"errors"
	"fmt"
)

// ErrCursorRepeated is returned when the server reports more results but
// hands back the cursor that was just sent.
var ErrCursorRepeated = errors.New("search cursor did not advance")

// Searcher is the subset of the client the pager needs.
type Searcher interface {
	SearchHeritage(ctx context.Context, params SearchParams) (*Envelope[*SearchResult], error)
}

var _ Searcher = (*Client)(nil)

// Pager provides cursor-based pagination for catalogue searches
type Pager struct {
	client Searcher
	params SearchParams
	logger Logger
	done   bool
}

// NewPager creates a new pager for the given search
func NewPager(client Searcher, params SearchParams, logger Logger) *Pager {
	if logger == nil {
		logger = defaultLogger
	}
	return &Pager{
		client: client,
		params: params,
		logger: logger,
	}
}

// NextPage fetches the next page of search results
func (p *Pager) NextPage(ctx context.Context) (SearchResult, error) {
	if p.done {
		return SearchResult{}, fmt.Errorf("no more pages available")
	}

	sent := p.params.Cursor
	env, err := p.client.SearchHeritage(ctx, p.params)
	if err != nil {
		p.logger.Error(ctx, "Failed to fetch search page", map[string]interface{}{
			"error":  err,
			"cursor": p.params.Cursor,
		})
		return SearchResult{}, fmt.Errorf("fetching search page: %w", err)
	}

	var page SearchResult
	if env.Data != nil {
		page = *env.Data
	}

	if page.HasMore && page.NextCursor != "" && page.NextCursor == sent {
		p.done = true
		p.logger.Warn(ctx, "Search cursor did not advance", map[string]interface{}{
			"cursor": sent,
		})
		return SearchResult{}, fmt.Errorf("%w: %q", ErrCursorRepeated, sent)
	}

	// Update cursor for next page
	p.params.Cursor = page.NextCursor
	p.done = !page.HasMore || page.NextCursor == ""

	p.logger.Debug(ctx, "Fetched search page", map[string]interface{}{
		"rows":        len(page.Data),
		"next_cursor": page.NextCursor,
		"has_more":    page.HasMore,
	})

	return page, nil
}

// HasMore returns true until the last page has been fetched
func (p *Pager) HasMore() bool {
	return !p.done
}

// AllPages fetches all remaining pages and returns their items as a single slice
// Note: This can be memory-intensive for large result sets
func (p *Pager) AllPages(ctx context.Context) ([]HeritageItem, error) {
	var all []HeritageItem

	for p.HasMore() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
	}

	p.logger.Info(ctx, "Fetched all search pages", map[string]interface{}{
		"total_rows": len(all),
	})
	return all, nil
}
