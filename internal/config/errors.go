package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate, Config.ValidateServer and
// ProviderConfig.Validate, and can be checked with errors.Is.
var (
	// ErrNoQuery is returned when no query or list file is specified.
	ErrNoQuery = errors.New("no query specified: provide a query or use --list")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrExportRequiresSingleQuery is returned when --export is combined with
	// several queries. Export file names carry only the date, so a batch
	// would overwrite its own reports.
	ErrExportRequiresSingleQuery = errors.New("--export requires a single query")

	// ErrNoPhases is returned when the search has no phases.
	ErrNoPhases = errors.New("invalid search phases: at least one phase is required")

	// ErrInvalidPhaseDelay is returned when a phase delay is negative.
	ErrInvalidPhaseDelay = errors.New("invalid phase delay: must be non-negative")

	// ErrInvalidTimeout is returned when the probe timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidListenAddress is returned when the HTTP listen address is empty.
	ErrInvalidListenAddress = errors.New("invalid listen address: must not be empty")

	// ErrInvalidProvider is returned for an unknown LLM provider name.
	ErrInvalidProvider = errors.New("invalid LLM provider: must be one of chatgpt4, chatgpt35, ollama")

	// ErrProviderNotConfigured is returned when a search is requested before
	// an LLM provider has been selected.
	ErrProviderNotConfigured = errors.New("LLM provider not configured: run 'darkcti config set --provider'")

	// ErrAPIKeyTooShort is returned by the connection test when an OpenAI
	// provider has an API key of 20 characters or fewer.
	ErrAPIKeyTooShort = errors.New("connection test failed: API key is missing or too short")

	// ErrOllamaEndpointIncomplete is returned by the connection test when the
	// Ollama host or port is missing.
	ErrOllamaEndpointIncomplete = errors.New("connection test failed: Ollama host and port are required")
)
