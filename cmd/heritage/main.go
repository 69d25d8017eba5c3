// Package main provides the CLI entry point for the heritage API client.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/heritage-client/internal/config"
	"github.com/rshade/heritage-client/internal/heritage/client"
	"github.com/rshade/heritage-client/internal/jq"
	"github.com/rshade/heritage-client/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// app carries the state shared by every command after flag parsing.
type app struct {
	cfg     *config.Config
	client  *client.Client
	logger  *slog.Logger
	cleanup func() error

	filter *jq.Filter
	raw    bool
}

func buildRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "heritage",
		Short: "Command-line client for the heritage API",
		Long: `A command-line client for the cultural-heritage catalogue API: search and fetch
records, map queries, citations, linked-data exports, OAI-PMH and local mirroring.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.cleanup != nil {
				return a.cleanup()
			}
			return nil
		},
	}

	// Add common flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to configuration file")
	flags.String("base-url", "", "API base URL (overrides config)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("jq", "", "Filter JSON output with a jq expression")
	flags.BoolP("raw-output", "r", false, "Print jq string results without quotes")

	// Add commands
	rootCmd.AddCommand(
		newGetCmd(a),
		newSearchCmd(a),
		newGeoCmd(a),
		newCiteCmd(a),
		newLIDOCmd(a),
		newCIDOCCmd(a),
		newOAICmd(a),
		newExportCmd(a),
		newSyncCmd(a),
	)

	return rootCmd
}

// setup loads configuration, applies flag overrides and builds the client.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if v, _ := flags.GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}

	logger, cleanup, err := logging.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	c, err := client.New(cfg.ClientConfig(client.NewSlogLogger(logger)))
	if err != nil {
		_ = cleanup()
		return err
	}

	if expr, _ := flags.GetString("jq"); expr != "" {
		filter, err := jq.Compile(expr)
		if err != nil {
			_ = cleanup()
			return err
		}
		a.filter = filter
	}
	a.raw, _ = flags.GetBool("raw-output")

	a.cfg = cfg
	a.client = c
	a.logger = logger
	a.cleanup = cleanup
	return nil
}

// printJSON writes v as indented JSON, or through the jq filter when one is set.
func (a *app) printJSON(ctx context.Context, w io.Writer, v any) error {
	if a.filter == nil {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	values, err := a.filter.Run(ctx, data)
	if err != nil {
		return err
	}
	return jq.Write(w, values, a.raw)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := buildRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
