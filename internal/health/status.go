package health

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nao1215/darkcti/internal/config"
	"github.com/nao1215/darkcti/internal/model"
)

// LLMState is the LLM indicator value.
type LLMState string

const (
	// LLMNotConfigured means no provider has been selected.
	LLMNotConfigured LLMState = "NOT CONFIGURED"
	// LLMConnected means the provider carries the settings it needs.
	LLMConnected LLMState = "CONNECTED"
	// LLMError means a provider is selected but incomplete.
	LLMError LLMState = "ERROR"
)

// Message shown for an LLM indicator in the error state.
const msgConfigIncomplete = "Configuration incomplete"

// TorStatus is the Tor indicator.
type TorStatus struct {
	Address   string `json:"address"`
	Connected bool   `json:"connected"`
	Detail    string `json:"detail"`
}

// Label returns the short indicator text.
func (t TorStatus) Label() string {
	if t.Connected {
		return "TOR: ON"
	}
	return "TOR: OFF"
}

// LLMStatus is the LLM indicator.
type LLMStatus struct {
	State    LLMState        `json:"state"`
	Provider config.Provider `json:"provider,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// SourceStatus is the indicator of one dark web source.
type SourceStatus struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Online       bool   `json:"online"`
	OnionVersion string `json:"onion_version,omitempty"`
	Deprecated   bool   `json:"deprecated,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Report holds every indicator.
type Report struct {
	Tor     TorStatus      `json:"tor"`
	LLM     LLMStatus      `json:"llm"`
	Sources []SourceStatus `json:"sources"`
}

// LLM derives the LLM indicator from the saved provider configuration.
func LLM(cfg *config.ProviderConfig) LLMStatus {
	if !cfg.IsConfigured() {
		return LLMStatus{State: LLMNotConfigured}
	}
	if cfg.HasCredentials() {
		return LLMStatus{State: LLMConnected, Provider: cfg.Provider}
	}
	return LLMStatus{State: LLMError, Provider: cfg.Provider, Message: msgConfigIncomplete}
}

// Sources derives a status for every source. A source is online when it is
// marked active and its URL is a well-formed onion address.
func Sources(sources []model.Source) []SourceStatus {
	out := make([]SourceStatus, 0, len(sources))
	for _, src := range sources {
		st := SourceStatus{Name: src.Name, URL: src.URL}
		addr, err := src.Address()
		if err != nil {
			st.Error = err.Error()
		} else {
			st.OnionVersion = addr.Version().String()
			st.Deprecated = addr.IsDeprecated()
			st.Online = src.IsActive()
		}
		out = append(out, st)
	}
	return out
}

// ProviderLoader returns the current provider configuration.
type ProviderLoader func(ctx context.Context) (*config.ProviderConfig, error)

// Checker collects a Report.
type Checker struct {
	probe    *TorProbe
	provider ProviderLoader
	sources  []model.Source
	logger   *slog.Logger
}

// NewChecker creates a Checker. probe and provider may be nil: a nil probe
// reports Tor as off and a nil loader reports the LLM as not configured.
func NewChecker(probe *TorProbe, provider ProviderLoader, sources []model.Source, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		probe:    probe,
		provider: provider,
		sources:  sources,
		logger:   logger,
	}
}

// Check gathers all indicators. The Tor probe and the provider lookup run
// concurrently; a failing lookup degrades its indicator instead of failing
// the report.
func (c *Checker) Check(ctx context.Context) Report {
	var (
		wg     sync.WaitGroup
		report Report
	)

	wg.Go(func() {
		report.Tor = c.tor(ctx)
	})
	wg.Go(func() {
		report.LLM = c.llm(ctx)
	})
	report.Sources = Sources(c.sources)
	wg.Wait()

	return report
}

func (c *Checker) tor(ctx context.Context) TorStatus {
	if c.probe == nil {
		return TorStatus{Detail: "no proxy configured"}
	}
	status := c.probe.Check(ctx)
	c.logger.Debug("tor probe finished", "address", c.probe.Address(), "status", status.String())
	return TorStatus{
		Address:   c.probe.Address(),
		Connected: status == ProxyStatusOK,
		Detail:    status.String(),
	}
}

func (c *Checker) llm(ctx context.Context) LLMStatus {
	if c.provider == nil {
		return LLMStatus{State: LLMNotConfigured}
	}
	cfg, err := c.provider(ctx)
	if err != nil {
		c.logger.Warn("failed to load provider configuration", "error", err)
		return LLMStatus{State: LLMError, Message: err.Error()}
	}
	return LLM(cfg)
}
