package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/heritage-client/internal/heritage/client"
	"github.com/rshade/heritage-client/internal/heritage/exporter"
	"github.com/rshade/heritage-client/internal/heritage/oai"
)

const defaultGetConcurrency = 4

func newGetCmd(a *app) *cobra.Command {
	var (
		lang        string
		fields      []string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "get <id>...",
		Short: "Fetch catalogue records by ID",
		Long:  `Fetch one or more catalogue records. Several IDs are fetched concurrently and printed as an array in argument order.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := &client.GetOptions{Lang: lang, Fields: fields}

			items := make([]*client.HeritageItem, len(args))
			g, gctx := errgroup.WithContext(ctx)
			if concurrency > 0 {
				g.SetLimit(concurrency)
			}
			for i, id := range args {
				g.Go(func() error {
					env, err := a.client.GetHeritage(gctx, id, opts)
					if err != nil {
						return err
					}
					items[i] = env.Data
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if len(items) == 1 {
				return a.printJSON(ctx, cmd.OutOrStdout(), items[0])
			}
			return a.printJSON(ctx, cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Preferred language for labels")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Restrict the returned fields")
	cmd.Flags().IntVar(&concurrency, "concurrency", defaultGetConcurrency, "Maximum parallel requests")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		params       client.SearchParams
		periodFrom   int
		periodTo     int
		hasMedia     bool
		updatedSince string
		all          bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalogue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				params.Q = args[0]
			}

			flags := cmd.Flags()
			if flags.Changed("from") {
				params.PeriodFrom = &periodFrom
			}
			if flags.Changed("to") {
				params.PeriodTo = &periodTo
			}
			if flags.Changed("has-media") {
				params.HasMedia = &hasMedia
			}
			since, err := parseTimeFlag("updated-since", updatedSince)
			if err != nil {
				return err
			}
			params.UpdatedSince = since

			if all {
				items, err := client.NewPager(a.client, params, client.NewSlogLogger(a.logger)).AllPages(ctx)
				if err != nil {
					return err
				}
				return a.printJSON(ctx, cmd.OutOrStdout(), items)
			}

			env, err := a.client.SearchHeritage(ctx, params)
			if err != nil {
				return err
			}
			return a.printJSON(ctx, cmd.OutOrStdout(), env.Data)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&params.Types, "type", nil, "Filter by item type (repeatable)")
	flags.StringVar(&params.Collection, "collection", "", "Filter by collection ID")
	flags.StringVar(&params.Institution, "institution", "", "Filter by institution")
	flags.StringVar(&params.Country, "country", "", "Filter by ISO country code")
	flags.StringSliceVar(&params.Keywords, "keyword", nil, "Filter by keyword (repeatable)")
	flags.IntVar(&periodFrom, "from", 0, "Earliest year; negative for BCE")
	flags.IntVar(&periodTo, "to", 0, "Latest year; negative for BCE")
	flags.BoolVar(&hasMedia, "has-media", false, "Only items with (or without) media")
	flags.StringVar(&updatedSince, "updated-since", "", "Only items updated after this RFC 3339 time")
	flags.StringVar(&params.Sort, "sort", "", "Sort order, e.g. relevance or -updated_at")
	flags.StringVar(&params.Lang, "lang", "", "Preferred language for labels")
	flags.StringVar(&params.Cursor, "cursor", "", "Resume from a pagination cursor")
	flags.IntVar(&params.Limit, "limit", 0, "Page size")
	flags.BoolVar(&all, "all", false, "Follow cursors and print every matching item")
	return cmd
}

func newGeoCmd(a *app) *cobra.Command {
	var (
		bbox       string
		types      []string
		collection string
		limit      int
		lat, lon   float64
		radius     int
	)

	cmd := &cobra.Command{
		Use:   "geo",
		Short: "Query the catalogue on the map",
		Long: `Without --lat/--lon, print items inside --bbox as a GeoJSON FeatureCollection.
With --lat and --lon, list items within --radius meters of the point, nearest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			if flags.Changed("lat") || flags.Changed("lon") {
				if !flags.Changed("lat") || !flags.Changed("lon") {
					return fmt.Errorf("--lat and --lon must be given together")
				}
				env, err := a.client.NearbyHeritage(ctx, client.NearbyParams{
					Lat:          lat,
					Lon:          lon,
					RadiusMeters: radius,
					Types:        types,
					Limit:        limit,
				})
				if err != nil {
					return err
				}
				return a.printJSON(ctx, cmd.OutOrStdout(), env.Data)
			}

			params := client.GeoParams{Types: types, Collection: collection, Limit: limit}
			if bbox != "" {
				box, err := parseBBox(bbox)
				if err != nil {
					return err
				}
				params.BBox = box
			}
			env, err := a.client.GetHeritageGeoJSON(ctx, params)
			if err != nil {
				return err
			}
			return a.printJSON(ctx, cmd.OutOrStdout(), env.Data)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&bbox, "bbox", "", "Bounding box minLon,minLat,maxLon,maxLat")
	flags.StringSliceVar(&types, "type", nil, "Filter by item type (repeatable)")
	flags.StringVar(&collection, "collection", "", "Filter by collection ID")
	flags.IntVar(&limit, "limit", 0, "Maximum number of results")
	flags.Float64Var(&lat, "lat", 0, "Latitude of the search point")
	flags.Float64Var(&lon, "lon", 0, "Longitude of the search point")
	flags.IntVar(&radius, "radius", 0, "Search radius in meters")
	return cmd
}

func newCiteCmd(a *app) *cobra.Command {
	var format, style, lang string

	cmd := &cobra.Command{
		Use:   "cite <id>",
		Short: "Print a citation for a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if format == "" || format == "json" {
				env, err := a.client.GetHeritageCitation(ctx, args[0], client.CitationParams{Style: style, Lang: lang})
				if err != nil {
					return err
				}
				return a.printJSON(ctx, cmd.OutOrStdout(), env.Data)
			}

			env, err := a.client.GetHeritageCitationText(ctx, args[0], client.CitationFormat(format))
			if err != nil {
				return err
			}
			return printText(cmd.OutOrStdout(), env.Data)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, bibtex or ris")
	cmd.Flags().StringVar(&style, "style", "", "Citation style for JSON output, e.g. apa")
	cmd.Flags().StringVar(&lang, "lang", "", "Citation language")
	return cmd
}

func newLIDOCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lido <id>",
		Short: "Print the LIDO XML record of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.client.GetHeritageLIDO(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			return printText(cmd.OutOrStdout(), env.Data)
		},
	}
}

func newCIDOCCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cidoc <id>",
		Short: "Print the CIDOC-CRM JSON-LD graph of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := a.client.GetHeritageCIDOC(ctx, args[0], nil)
			if err != nil {
				return err
			}
			return a.printJSON(ctx, cmd.OutOrStdout(), env.Data)
		},
	}
}

func newOAICmd(a *app) *cobra.Command {
	var (
		params  client.OAIParams
		harvest bool
	)

	cmd := &cobra.Command{
		Use:   "oai",
		Short: "Issue an OAI-PMH request",
		Long: `Print the raw OAI-PMH XML response. With --harvest, follow resumption tokens and
print one line per record header: identifier, datestamp and "deleted" when applicable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			if harvest {
				return oai.Harvest(ctx, a.client, params, func(h oai.Header) error {
					line := h.Identifier + "\t" + h.Datestamp
					if h.Deleted {
						line += "\tdeleted"
					}
					_, err := fmt.Fprintln(w, line)
					return err
				})
			}

			env, err := a.client.OAIPMH(ctx, params)
			if err != nil {
				return err
			}
			if err := printText(w, env.Data); err != nil {
				return err
			}
			if page, err := oai.Parse([]byte(env.Data)); err == nil {
				return page.Err()
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&params.Verb, "verb", "Identify", "OAI-PMH verb")
	flags.StringVar(&params.Identifier, "identifier", "", "Record identifier for GetRecord")
	flags.StringVar(&params.MetadataPrefix, "metadata-prefix", "", "Metadata format, e.g. oai_dc or lido")
	flags.StringVar(&params.Set, "set", "", "Set spec")
	flags.StringVar(&params.From, "from", "", "Lower datestamp bound")
	flags.StringVar(&params.Until, "until", "", "Upper datestamp bound")
	flags.StringVar(&params.ResumptionToken, "token", "", "Resumption token")
	flags.BoolVar(&harvest, "harvest", false, "Follow resumption tokens and list headers")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		params       client.ExportParams
		updatedSince string
		output       string
	)

	exportParams := func() (client.ExportParams, error) {
		since, err := parseTimeFlag("updated-since", updatedSince)
		if err != nil {
			return params, err
		}
		p := params
		p.UpdatedSince = since
		return p, nil
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download bulk exports of the catalogue",
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&params.Collection, "collection", "", "Filter by collection ID")
	flags.StringSliceVar(&params.Types, "type", nil, "Filter by item type (repeatable)")
	flags.StringVar(&params.Country, "country", "", "Filter by ISO country code")
	flags.StringVar(&updatedSince, "updated-since", "", "Only items updated after this RFC 3339 time")
	flags.StringSliceVar(&params.Fields, "fields", nil, "Restrict the exported fields")
	flags.IntVar(&params.Limit, "limit", 0, "Maximum number of items")
	flags.StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	ndjsonCmd := &cobra.Command{
		Use:   "ndjson",
		Short: "Export records as newline-delimited JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := exportParams()
			if err != nil {
				return err
			}
			env, err := a.client.ExportHeritageNDJSON(cmd.Context(), p)
			if err != nil {
				return err
			}
			return withOutput(cmd, output, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				for i := range env.Data {
					if err := enc.Encode(&env.Data[i]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	zipCmd := &cobra.Command{
		Use:   "zip",
		Short: "Export records as a ZIP archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := exportParams()
			if err != nil {
				return err
			}
			env, err := a.client.ExportHeritageZIP(cmd.Context(), p)
			if err != nil {
				return err
			}
			return writeBytes(cmd, output, env.Data)
		},
	}

	lidoCmd := &cobra.Command{
		Use:   "lido",
		Short: "Export LIDO records as a ZIP archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := exportParams()
			if err != nil {
				return err
			}
			env, err := a.client.ExportHeritageLIDO(cmd.Context(), p)
			if err != nil {
				return err
			}
			return writeBytes(cmd, output, env.Data)
		},
	}

	cmd.AddCommand(ndjsonCmd, zipCmd, lidoCmd)
	return cmd
}

func newSyncCmd(a *app) *cobra.Command {
	var (
		dir        string
		full       bool
		citations  bool
		collection string
		types      []string
		country    string
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the catalogue into a local directory",
		Long: `Page through the catalogue and append records to records.ndjson in the export
directory. Subsequent runs only fetch items updated since the last successful sync.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			export := a.cfg.Export
			if flags.Changed("dir") {
				export.Dir = dir
			}
			if flags.Changed("collection") {
				export.Collection = collection
			}
			if flags.Changed("type") {
				export.Types = types
			}
			if flags.Changed("country") {
				export.Country = country
			}
			if flags.Changed("page-size") {
				export.PageSize = pageSize
			}
			if flags.Changed("citations") {
				export.IncludeCitations = citations
			}
			export.Full = export.Full || full

			sink, err := exporter.NewFileSink(export.Dir)
			if err != nil {
				return err
			}

			summary, err := exporter.New(a.client, client.NewSlogLogger(a.logger)).Sync(ctx, export.Config, sink)
			if err != nil {
				return err
			}
			return a.printJSON(ctx, cmd.OutOrStdout(), map[string]any{
				"dir":         export.Dir,
				"pages":       summary.Pages,
				"records":     summary.Records,
				"with_issues": summary.WithIssues,
				"since":       summary.Since,
				"bookmark":    summary.Bookmark,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dir, "dir", "", "Export directory (overrides config)")
	flags.BoolVar(&full, "full", false, "Ignore the bookmark and export everything")
	flags.BoolVar(&citations, "citations", false, "Fetch a citation for every record")
	flags.StringVar(&collection, "collection", "", "Filter by collection ID")
	flags.StringSliceVar(&types, "type", nil, "Filter by item type (repeatable)")
	flags.StringVar(&country, "country", "", "Filter by ISO country code")
	flags.IntVar(&pageSize, "page-size", 0, "Items per page")
	return cmd
}

// parseBBox parses "minLon,minLat,maxLon,maxLat".
func parseBBox(s string) (*client.BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid --bbox %q: want minLon,minLat,maxLon,maxLat", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --bbox %q: %w", s, err)
		}
		v[i] = f
	}
	return &client.BBox{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}, nil
}

func parseTimeFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return &t, nil
}

func printText(w io.Writer, s string) error {
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeBytes(cmd *cobra.Command, path string, data []byte) error {
	return withOutput(cmd, path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// withOutput runs write against the file at path, or stdout when path is empty or "-".
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	return f.Close()
}
