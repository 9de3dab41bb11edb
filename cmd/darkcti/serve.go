package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/darkcti/internal/config"
	"github.com/nao1215/darkcti/internal/health"
	"github.com/nao1215/darkcti/internal/log"
	"github.com/nao1215/darkcti/internal/metrics"
	"github.com/nao1215/darkcti/internal/search"
	"github.com/nao1215/darkcti/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Long: `Serve exposes search, export, status and configuration over an HTTP
JSON API, and Prometheus metrics on /metrics.

The API has no authentication and listens on loopback by default.

Examples:
  darkcti serve
  darkcti serve --listen 127.0.0.1:9000 --phase-delay 200ms
  curl -s -XPOST localhost:8080/api/v1/search -d '{"query":"APT41"}'`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddress, "Listen address")
	cmd.Flags().String("tor-proxy", config.DefaultTorProxyAddress, "Tor SOCKS5 proxy address for /api/v1/status")
	cmd.Flags().DurationP("timeout", "t", config.DefaultProbeTimeout, "Timeout of the Tor probe")
	cmd.Flags().Bool("log-json", false, "Write logs as JSON")
	addPhaseDelayFlag(cmd)
	addConfigFileFlag(cmd)
	addDBDirFlag(cmd, false)

	return cmd
}

// buildServeConfig creates a Config from cobra command flags.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if err := loadFileConfig(cmd, cfg); err != nil {
		return nil, err
	}
	if err := applyPhaseDelay(cmd, cfg); err != nil {
		return nil, err
	}

	var err error
	flags := cmd.Flags()
	if cfg.ListenAddress, err = flags.GetString("listen"); err != nil {
		return nil, err
	}
	if cfg.TorProxyAddress, err = flags.GetString("tor-proxy"); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)
	if logJSON, _ := cmd.Flags().GetBool("log-json"); logJSON {
		logger = log.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}

	searcher, err := newSearcher(cfg, logger)
	if err != nil {
		return err
	}
	probe, err := health.NewTorProbe(cfg.TorProxyAddress, cfg.ProbeTimeout)
	if err != nil {
		return err
	}
	settings, err := openSettings(cfg)
	if err != nil {
		return err
	}
	defer settings.Close()

	m := metrics.New()
	session := search.NewSession(searcher,
		search.WithProviderLoader(settings.LoadProvider),
		search.WithMetrics(m),
		search.WithSessionLogger(logger),
	)
	srv := server.New(session,
		server.WithSettings(settings),
		server.WithChecker(health.NewChecker(probe, settings.LoadProvider, searcher.Dataset().Sources(), logger)),
		server.WithMetrics(m),
		server.WithLogger(logger),
		server.WithVersion(getVersion()),
		server.WithSampleQueries(searcher.Dataset().SampleQueries()),
	)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving darkcti API on http://%s\n", cfg.ListenAddress)
	return srv.Run(ctx, cfg.ListenAddress)
}
