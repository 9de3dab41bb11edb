package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/darkcti/internal/config"
	"github.com/nao1215/darkcti/internal/dataset"
	"github.com/nao1215/darkcti/internal/log"
	"github.com/nao1215/darkcti/internal/pipeline"
	"github.com/nao1215/darkcti/internal/search"
	"github.com/nao1215/darkcti/internal/store"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the secure logger for a command and makes it the
// slog default.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), verbose)
	slog.SetDefault(logger)
	return logger
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// addConfigFileFlag registers --config.
func addConfigFileFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .darkcti in current or home directory)")
}

// addDBDirFlag registers --db-dir on cmd and, when persistent is set, on
// its subcommands.
func addDBDirFlag(cmd *cobra.Command, persistent bool) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}
	flags.String("db-dir", config.XDGDataDir(), "Directory of the settings database")
}

// addPhaseDelayFlag registers --phase-delay.
func addPhaseDelayFlag(cmd *cobra.Command) {
	cmd.Flags().Duration("phase-delay", pipeline.DefaultPhaseDelay,
		"Delay of every search phase (overrides the configuration file)")
}

// loadFileConfig reads the configuration file into cfg.
// An explicitly named file must exist; otherwise a missing file means the
// built-in defaults.
func loadFileConfig(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case path != "":
		cfg.File, err = config.LoadConfigFile(path)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	case explicit:
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.Phases = cfg.File.PhasesOr(cfg.Phases)
	return nil
}

// applyPhaseDelay sets every phase delay to --phase-delay when the flag
// was given.
func applyPhaseDelay(cmd *cobra.Command, cfg *config.Config) error {
	if !cmd.Flags().Changed("phase-delay") {
		return nil
	}
	delay, err := cmd.Flags().GetDuration("phase-delay")
	if err != nil {
		return err
	}
	phases := make([]pipeline.Phase, len(cfg.Phases))
	for i, p := range cfg.Phases {
		phases[i] = pipeline.Phase{Name: p.Name, Delay: delay}
	}
	cfg.Phases = phases
	return nil
}

// openSettings opens the settings database in cfg.DBDir.
func openSettings(cfg *config.Config) (*store.SettingsDB, error) {
	db, err := store.Open(cfg.DBPath(), store.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}
	return db, nil
}

// providerLoader loads the saved provider configuration, replacing the
// provider with override when it is set.
func providerLoader(settings *store.SettingsDB, override config.Provider) search.ProviderLoader {
	return func(ctx context.Context) (*config.ProviderConfig, error) {
		p, err := settings.LoadProvider(ctx)
		if err != nil {
			return nil, err
		}
		if override != "" {
			p.Provider = override
		}
		return p, nil
	}
}

// newSearcher builds a Searcher from the dataset and phases in cfg.
func newSearcher(cfg *config.Config, logger *slog.Logger) (*search.Searcher, error) {
	ds, err := cfg.File.Store()
	if err != nil {
		return nil, err
	}
	return search.NewSearcher(ds,
		search.WithPhases(cfg.Phases),
		search.WithLogger(logger),
	), nil
}

// sampleDataset returns the dataset of the configuration file, or the
// built-in one when no file is found.
func sampleDataset(cmd *cobra.Command) (*dataset.Store, error) {
	cfg := config.NewConfig()
	if err := loadFileConfig(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg.File.Store()
}

// elapsedString rounds d for display.
func elapsedString(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
