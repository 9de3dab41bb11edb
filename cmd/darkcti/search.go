package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nao1215/darkcti/internal/config"
	"github.com/nao1215/darkcti/internal/model"
	"github.com/nao1215/darkcti/internal/report"
	"github.com/nao1215/darkcti/internal/search"
)

// stderrIsTerminal decides whether phase progress is printed.
var stderrIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // fd fits in int
}

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search dark web threat intelligence",
		Long: `Search runs a query through the simulated dark web search and prints a
CTI report with matching IOCs, threat actors and a risk assessment.

Arguments are joined into one query. Several queries can be searched
concurrently with --list.

An LLM provider must be configured first ('darkcti config set') or named
with --provider.

Examples:
  # Search one query
  darkcti search Latest ransomware targeting financial institutions

  # Markdown report with a threat level chart, written to a file
  darkcti search -m --chart -o report.md "APT41 new campaigns 2024"

  # Export cti-report-<date>.txt and .md into ./reports
  darkcti search -e reports "Banking trojan IOCs Q1 2024"

  # Search every line of a file, four at a time, as JSON
  darkcti search --list queries.txt --batch 4 --json

  # Skip the phase delays
  darkcti search --phase-delay 0 ransomware`,
		Args: cobra.ArbitraryArgs,
		RunE: runSearchCmd,
	}

	cmd.Flags().StringP("list", "l", "",
		"File with one query per line (blank lines and # comments are skipped)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent searches with --list")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().Bool("chart", false,
		"Add a threat level pie chart to Markdown reports")
	cmd.Flags().Bool("alert", false,
		"Add a risk level callout to Markdown reports")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().StringP("export", "e", "",
		"Directory receiving cti-report-<date>.txt and cti-report-<date>.md")

	cmd.Flags().String("provider", "",
		"LLM provider for this search (chatgpt4, chatgpt35, ollama)")
	addPhaseDelayFlag(cmd)
	addConfigFileFlag(cmd)
	addDBDirFlag(cmd, false)

	return cmd
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildSearchConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	return runSearch(ctx, cmd, cfg, logger)
}

// buildSearchConfig creates a Config from cobra command flags.
func buildSearchConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if err := loadFileConfig(cmd, cfg); err != nil {
		return nil, err
	}
	if err := applyPhaseDelay(cmd, cfg); err != nil {
		return nil, err
	}

	if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
		cfg.Queries = append(cfg.Queries, q)
	}
	listFile, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listFile != "" {
		queries, err := readQueryList(listFile)
		if err != nil {
			return nil, err
		}
		cfg.Queries = append(cfg.Queries, queries...)
	}

	flags := cmd.Flags()
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.Chart, err = flags.GetBool("chart"); err != nil {
		return nil, err
	}
	if cfg.Alert, err = flags.GetBool("alert"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.ExportDir, err = flags.GetString("export"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	provider, err := flags.GetString("provider")
	if err != nil {
		return nil, err
	}
	if cfg.Provider, err = config.ParseProvider(provider); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readQueryList reads one query per line, skipping blank lines and lines
// starting with '#'.
func readQueryList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open query list: %w", err)
	}
	defer f.Close()

	var queries []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read query list: %w", err)
	}
	return queries, nil
}

// reportFormat returns the output format selected by the flags.
func reportFormat(cfg *config.Config) report.Format {
	switch {
	case cfg.JSONReport:
		return report.FormatJSON
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	default:
		return report.FormatText
	}
}

func reportOptions(cfg *config.Config) report.Options {
	return report.Options{PieChart: cfg.Chart, RiskAlert: cfg.Alert}
}

func runSearch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	searcher, err := newSearcher(cfg, logger)
	if err != nil {
		return err
	}

	settings, err := openSettings(cfg)
	if err != nil {
		return err
	}
	defer settings.Close()

	session := search.NewSession(searcher,
		search.WithProviderLoader(providerLoader(settings, cfg.Provider)),
		search.WithSessionLogger(logger),
	)

	logger.Info("starting search",
		"queries", len(cfg.Queries),
		"batch_size", cfg.BatchSize,
		"phases", len(cfg.Phases),
	)

	if len(cfg.Queries) > 1 {
		return runBatchSearch(ctx, cmd, cfg, session, searcher, logger)
	}
	return runSingleSearch(ctx, cmd, cfg, session)
}

// runSingleSearch searches one query, printing phase progress on a terminal.
func runSingleSearch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, session *search.Session) error {
	start := time.Now()
	run, err := session.Start(ctx, cfg.Queries[0])
	if err != nil {
		return err
	}

	showProgress := stderrIsTerminal()
	for p := range run.Progress() {
		if showProgress {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s\n", p.Index, p.Total, p.Phase.Name)
		}
	}
	result, err := run.Wait()
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if showProgress {
		fmt.Fprintf(cmd.ErrOrStderr(), "Search completed in %s\n\n", elapsedString(time.Since(start)))
	}

	if err := outputReport(cmd, cfg, result); err != nil {
		return err
	}

	if cfg.ExportDir != "" {
		for _, format := range []report.Format{report.FormatText, report.FormatMarkdown} {
			path, err := session.Export(cfg.ExportDir, format, reportOptions(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s\n", path)
		}
	}
	return nil
}

// runBatchSearch runs every query concurrently. The session validates the
// provider once; each query then gets its own pipeline.
func runBatchSearch(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	session *search.Session,
	searcher *search.Searcher,
	logger *slog.Logger,
) error {
	if err := session.CheckProvider(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Starting batch search of %d queries (concurrency: %d)...\n",
		len(cfg.Queries), cfg.BatchSize)
	start := time.Now()

	var mu sync.Mutex
	done := 0
	results, err := searcher.SearchBatch(ctx, cfg.Queries, cfg.BatchSize, func(r *model.SearchResult, index int) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if r == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Search failed: %s\n", done, len(cfg.Queries), cfg.Queries[index])
			return
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Search completed: %s\n", done, len(cfg.Queries), r.Query)
	})
	if err != nil {
		return fmt.Errorf("batch search failed: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Batch search completed in %s\n\n", elapsedString(time.Since(start)))

	completed := make([]*model.SearchResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			completed = append(completed, r)
		}
	}
	logger.Debug("batch finished", "completed", len(completed), "total", len(results))

	return outputReports(cmd, cfg, completed)
}

// openOutput returns the report destination: the --output file or stdout.
func openOutput(cmd *cobra.Command, cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	// Reports are created owner-only.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// outputReport writes one result in the requested format.
func outputReport(cmd *cobra.Command, cfg *config.Config, result *model.SearchResult) error {
	return outputReports(cmd, cfg, []*model.SearchResult{result})
}

// outputReports writes results in the requested format. JSON output of
// several results is a single array.
func outputReports(cmd *cobra.Command, cfg *config.Config, results []*model.SearchResult) error {
	out, closeOut, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}

	format := reportFormat(cfg)
	if format == report.FormatJSON && len(results) > 1 {
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteBatch(results)
	} else {
		err = writeEach(out, format, reportOptions(cfg), results)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}

func writeEach(out io.Writer, format report.Format, opts report.Options, results []*model.SearchResult) error {
	w, err := report.NewWriter(format, out, opts)
	if err != nil {
		return err
	}
	for i, r := range results {
		if i > 0 {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return err
			}
		}
		if _, err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
