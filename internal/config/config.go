package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/darkcti/internal/pipeline"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "darkcti"

	// DefaultTorProxyAddress is the standard Tor SOCKS5 proxy address.
	// We use 127.0.0.1 instead of localhost to avoid DNS resolution overhead
	// and potential issues with IPv6 resolution on some systems.
	DefaultTorProxyAddress = "127.0.0.1:9050"

	// DefaultProbeTimeout bounds the Tor proxy health probe.
	DefaultProbeTimeout = 3 * time.Second

	// DefaultBatchSize is the number of concurrent searches in batch mode.
	DefaultBatchSize = pipeline.DefaultConcurrency

	// DefaultListenAddress is where the HTTP API listens.
	// Only loopback by default: the API has no authentication.
	DefaultListenAddress = "127.0.0.1:8080"

	// DefaultDBFileName is the SQLite file holding the provider settings.
	DefaultDBFileName = "darkcti.db"
)

// Config holds all configuration options for darkcti.
// It is populated from CLI flags and the .darkcti file and passed through
// the application rather than kept in global state.
type Config struct {
	// Queries are the free-text queries to search.
	// One query runs a single search; several run as a batch.
	Queries []string

	// BatchSize is the number of concurrent searches when several queries
	// are given.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .darkcti in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// File holds the parsed configuration file, if any.
	File *File

	// Phases are the simulated search phases.
	Phases []pipeline.Phase

	// Provider overrides the persisted LLM provider for this run.
	// Empty means use the persisted setting.
	Provider Provider

	// JSONReport outputs the result as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport outputs the result as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// Chart adds a threat level pie chart to Markdown reports.
	Chart bool

	// Alert adds a risk level callout to Markdown reports.
	Alert bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ExportDir, when set, receives cti-report-<date>.txt and .md files.
	ExportDir string

	// DBDir is the directory holding the settings database.
	// Defaults to the XDG data directory (~/.local/share/darkcti on Linux).
	DBDir string

	// TorProxyAddress is the SOCKS5 proxy probed by the status check.
	TorProxyAddress string

	// ProbeTimeout bounds each status probe.
	ProbeTimeout time.Duration

	// ListenAddress is the host:port the HTTP API listens on.
	ListenAddress string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BatchSize:       DefaultBatchSize,
		Phases:          pipeline.DefaultPhases(),
		DBDir:           XDGDataDir(),
		TorProxyAddress: DefaultTorProxyAddress,
		ProbeTimeout:    DefaultProbeTimeout,
		ListenAddress:   DefaultListenAddress,
	}
}

// XDGDataDir returns the XDG data directory for darkcti.
// On Linux: ~/.local/share/darkcti
// On macOS: ~/Library/Application Support/darkcti
// On Windows: %LOCALAPPDATA%\darkcti
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for darkcti.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DBPath returns the path of the settings database inside DBDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DBDir, DefaultDBFileName)
}

// Validate checks that the configuration can run a search.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Queries) == 0 {
		return ErrNoQuery
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.Provider != "" && !c.Provider.IsValid() {
		return ErrInvalidProvider
	}

	if c.ExportDir != "" && len(c.Queries) > 1 {
		return ErrExportRequiresSingleQuery
	}

	return c.validatePhases()
}

// ValidateServer checks that the configuration can serve the HTTP API.
func (c *Config) ValidateServer() error {
	if c.ListenAddress == "" {
		return ErrInvalidListenAddress
	}

	if c.ProbeTimeout <= 0 {
		return ErrInvalidTimeout
	}

	return c.validatePhases()
}

func (c *Config) validatePhases() error {
	if len(c.Phases) == 0 {
		return ErrNoPhases
	}
	for _, p := range c.Phases {
		if p.Delay < 0 {
			return ErrInvalidPhaseDelay
		}
	}
	return nil
}
