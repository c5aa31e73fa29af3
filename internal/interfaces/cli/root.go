// Package cli implements the fusionctl command tree.  The CLI talks to the
// upstream catalog endpoint directly: it builds the same fetch, normalize,
// and query pipeline the API server uses, runs one operation, and exits.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fusionatlas/fusion-catalog/internal/application/query"
	"github.com/fusionatlas/fusion-catalog/internal/config"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/cache"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/source"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
	SourceURL    string
}

// ServiceFactory builds the query service a command runs against.  Tests
// substitute a factory backed by fixed data.
type ServiceFactory func(ctx context.Context) (*query.Service, error)

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.  A nil factory uses the real upstream pipeline.
func NewRootCommand(factory ServiceFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "fusionctl",
		Short:   "fusionctl — query the fusion energy company catalog",
		Long:    "fusionctl fetches the fusion energy company catalog from its upstream\nendpoint and runs filter, summary, and lookup operations against it.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "table", "output format (table, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "operation timeout")
	pf.StringVar(&opts.SourceURL, "source-url", "", "override the catalog endpoint URL")

	if factory == nil {
		factory = defaultFactory(opts)
	}

	cmd.AddCommand(
		newListCmd(factory, opts),
		newSummaryCmd(factory, opts),
		newShowCmd(factory, opts),
	)

	return cmd
}

// defaultFactory builds the real pipeline: config, source client, snapshot
// cache, query service.
func defaultFactory(opts *RootOptions) ServiceFactory {
	return func(_ context.Context) (*query.Service, error) {
		cfg, err := loadConfig(opts)
		if err != nil {
			return nil, fmt.Errorf("config initialization failed: %w", err)
		}

		logger, err := initLogger(opts)
		if err != nil {
			return nil, fmt.Errorf("logger initialization failed: %w", err)
		}

		if opts.SourceURL != "" {
			cfg.Source.URL = opts.SourceURL
		}
		if opts.Timeout > 0 {
			cfg.Source.Timeout = opts.Timeout
		}

		client := source.NewClient(cfg.Source, logger)
		snap := cache.New(client, cfg.Cache.TTL, logger, nil)
		return query.NewService(snap, logger), nil
	}
}

// loadConfig loads configuration: explicit path, then ./fusion-catalog.yaml,
// then environment variables and defaults.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	if _, err := os.Stat("./fusion-catalog.yaml"); err == nil {
		return config.Load("./fusion-catalog.yaml")
	}
	return config.LoadFromEnv()
}

// initLogger creates a logger configured for CLI usage (console to stderr).
func initLogger(opts *RootOptions) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:            opts.LogLevel,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand(nil)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}
	return nil
}

// printJSON outputs data as indented JSON.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder

	for i, h := range headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(padRight(h, colWidths[i]))
	}
	sb.WriteString("\n")

	for i, w := range colWidths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < len(headers); i++ {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			sb.WriteString(padRight(val, colWidths[i]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// padRight pads s with spaces to the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
