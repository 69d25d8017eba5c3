// Package exporter mirrors the heritage catalogue into a local sink.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/heritage-client/internal/heritage/client"
)

// ExportRecord is the flattened, sink-ready form of a catalogue item.
type ExportRecord struct {
	RecordID    string   `json:"record_id"` // content hash, stable across re-runs
	HeritageID  string   `json:"heritage_id"`
	Title       string   `json:"title,omitempty"`
	Type        string   `json:"type,omitempty"`
	Collection  string   `json:"collection,omitempty"`
	Institution string   `json:"institution,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`

	PeriodLabel string `json:"period_label,omitempty"`
	StartYear   *int   `json:"start_year,omitempty"`
	EndYear     *int   `json:"end_year,omitempty"`

	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	Place   string   `json:"place,omitempty"`
	Country string   `json:"country,omitempty"`

	License     string    `json:"license,omitempty"`
	Attribution string    `json:"attribution,omitempty"`
	URL         string    `json:"url,omitempty"`
	Citation    string    `json:"citation,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`

	QueryHash string    `json:"query_hash"`
	SyncedAt  time.Time `json:"synced_at"`

	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// Sink defines the interface for persisting exported records.
type Sink interface {
	// WriteRecords writes records to the data store
	WriteRecords(ctx context.Context, records []ExportRecord) error

	// GetBookmark retrieves the last successful sync bookmark
	GetBookmark(ctx context.Context, key string) (string, error)

	// SetBookmark stores the last successful sync bookmark
	SetBookmark(ctx context.Context, key string, value string) error
}

// Client is the part of the heritage API the exporter uses.
type Client interface {
	client.Searcher
	GetHeritageCitation(ctx context.Context, heritageID string, params client.CitationParams) (*client.Envelope[*client.Citation], error)
}

var _ Client = (*client.Client)(nil)

// Summary reports what a sync did.
type Summary struct {
	Pages      int
	Records    int
	WithIssues int
	// Since is the bookmark the sync resumed from, empty for a full export.
	Since    string
	Bookmark string
}

// Exporter syncs the catalogue into a Sink.
type Exporter struct {
	client Client
	logger client.Logger
	now    func() time.Time
}

// New creates a new exporter.
func New(c Client, logger client.Logger) *Exporter {
	if logger == nil {
		logger = client.NewNoopLogger()
	}
	return &Exporter{
		client: c,
		logger: logger,
		now:    time.Now,
	}
}

// Sync pages through the catalogue and writes every item to sink. Unless
// cfg.Full is set it resumes from the bookmark of the previous successful
// run and only requests items updated since then.
func (e *Exporter) Sync(ctx context.Context, cfg Config, sink Sink) (Summary, error) {
	queryHash := QueryHash(cfg)
	bookmarkKey := fmt.Sprintf("heritage_%s", queryHash)
	startedAt := e.now().UTC()

	e.logger.Info(ctx, "Starting catalogue sync", map[string]interface{}{
		"operation":  "sync",
		"full":       cfg.Full,
		"query_hash": queryHash,
	})

	params := client.SearchParams{
		Types:      cfg.Types,
		Collection: cfg.Collection,
		Country:    cfg.Country,
		Lang:       cfg.Lang,
		Sort:       "updated_at",
		Limit:      cfg.PageSize,
	}

	var summary Summary
	if !cfg.Full {
		last, err := sink.GetBookmark(ctx, bookmarkKey)
		if err != nil {
			return summary, fmt.Errorf("reading bookmark: %w", err)
		}
		if last != "" {
			if parsed, err := time.Parse(time.RFC3339, last); err == nil {
				params.UpdatedSince = &parsed
				summary.Since = last
				e.logger.Info(ctx, "Resuming from bookmark", map[string]interface{}{
					"bookmark": last,
				})
			} else {
				e.logger.Warn(ctx, "Ignoring unreadable bookmark", map[string]interface{}{
					"bookmark": last,
					"error":    err,
				})
			}
		}
	}

	pager := client.NewPager(e.client, params, e.logger)
	for pager.HasMore() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return summary, fmt.Errorf("fetching page: %w", err)
		}

		records := make([]ExportRecord, 0, len(page.Data))
		for _, item := range page.Data {
			records = append(records, mapItemToRecord(item, queryHash, startedAt))
		}

		if cfg.IncludeCitations {
			if err := e.attachCitations(ctx, cfg, records); err != nil {
				return summary, fmt.Errorf("fetching citations: %w", err)
			}
		}

		if len(records) > 0 {
			if err := sink.WriteRecords(ctx, records); err != nil {
				return summary, fmt.Errorf("writing records: %w", err)
			}
		}

		summary.Pages++
		summary.Records += len(records)
		for i := range records {
			if records[i].Diagnostics.HasIssues() {
				summary.WithIssues++
			}
		}
	}

	summary.Bookmark = startedAt.Format(time.RFC3339)
	if err := sink.SetBookmark(ctx, bookmarkKey, summary.Bookmark); err != nil {
		e.logger.Warn(ctx, "Failed to update bookmark", map[string]interface{}{
			"error": err,
		})
	}

	e.logger.Info(ctx, "Catalogue sync finished", map[string]interface{}{
		"pages":       summary.Pages,
		"records":     summary.Records,
		"with_issues": summary.WithIssues,
		"query_hash":  queryHash,
	})

	return summary, nil
}

// attachCitations fills in Citation for every record with bounded
// concurrency. A missing citation is recorded as a warning on the record;
// only cancellation aborts the page.
func (e *Exporter) attachCitations(ctx context.Context, cfg Config, records []ExportRecord) error {
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	citationParams := client.CitationParams{Style: cfg.CitationStyle, Lang: cfg.Lang}
	for i := range records {
		record := &records[i]
		g.Go(func() error {
			env, err := e.client.GetHeritageCitation(gctx, record.HeritageID, citationParams)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				e.logger.Warn(gctx, "Citation unavailable", map[string]interface{}{
					"heritage_id": record.HeritageID,
					"error":       err,
				})
				addWarning(record, WarnCitationUnavailable)
				return nil
			}
			if env.Data != nil {
				record.Citation = env.Data.Text
			}
			return nil
		})
	}

	return g.Wait()
}

func addWarning(record *ExportRecord, warning string) {
	if record.Diagnostics == nil {
		record.Diagnostics = NewDiagnostics()
	}
	record.Diagnostics.AddWarning(warning)
}
