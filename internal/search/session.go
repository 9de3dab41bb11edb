package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/darkcti/internal/config"
	"github.com/nao1215/darkcti/internal/metrics"
	"github.com/nao1215/darkcti/internal/model"
	"github.com/nao1215/darkcti/internal/report"
)

// ProviderLoader returns the current LLM provider configuration.
type ProviderLoader func(ctx context.Context) (*config.ProviderConfig, error)

// Session is the state of a single user: at most one running search and
// the result of the last completed one.
type Session struct {
	searcher *Searcher
	provider ProviderLoader
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time

	inFlight atomic.Bool

	mu   sync.RWMutex
	last *model.SearchResult
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithProviderLoader makes the session refuse searches until the loaded
// configuration names a provider. Without it, no provider is required.
func WithProviderLoader(load ProviderLoader) SessionOption {
	return func(s *Session) {
		s.provider = load
	}
}

// WithMetrics records session activity.
func WithMetrics(m *metrics.Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithExportClock sets the clock that names exported files.
func WithExportClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession creates a Session around searcher.
func NewSession(searcher *Searcher, opts ...SessionOption) *Session {
	s := &Session{
		searcher: searcher,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates query and begins a search.
// It returns ErrEmptyQuery for a blank query, config.ErrProviderNotConfigured
// when no provider is selected, and ErrSearchInProgress while another
// search of this session is running.
func (s *Session) Start(ctx context.Context, query string) (*Run, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		s.metrics.SearchRejected(metrics.ReasonEmptyQuery)
		return nil, ErrEmptyQuery
	}

	if err := s.CheckProvider(ctx); err != nil {
		return nil, err
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		s.metrics.SearchRejected(metrics.ReasonInProgress)
		return nil, ErrSearchInProgress
	}

	s.logger.Debug("search started", "query", query)
	s.metrics.SearchStarted()
	started := time.Now()

	return s.searcher.start(ctx, query, func(result *model.SearchResult, err error) {
		if err != nil {
			s.logger.Warn("search failed", "query", query, "error", err)
		} else {
			s.mu.Lock()
			s.last = result
			s.mu.Unlock()
			s.logger.Debug("search completed",
				"query", query,
				"risk_level", result.RiskLevel,
				"iocs", len(result.IOCs),
				"actors", len(result.Actors),
			)
		}
		s.metrics.SearchFinished(result, time.Since(started))
		s.inFlight.Store(false)
	}), nil
}

// CheckProvider returns config.ErrProviderNotConfigured when the loaded
// configuration names no provider. It always succeeds without a loader.
func (s *Session) CheckProvider(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}
	p, err := s.provider(ctx)
	if err != nil {
		return fmt.Errorf("failed to load provider configuration: %w", err)
	}
	if !p.IsConfigured() {
		s.metrics.SearchRejected(metrics.ReasonNotConfigured)
		return config.ErrProviderNotConfigured
	}
	return nil
}

// Search runs a search and blocks until it completes.
func (s *Session) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	run, err := s.Start(ctx, query)
	if err != nil {
		return nil, err
	}
	return run.Wait()
}

// InFlight reports whether a search is running.
func (s *Session) InFlight() bool {
	return s.inFlight.Load()
}

// Last returns the last completed result, or nil.
func (s *Session) Last() *model.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Clear discards the last result.
func (s *Session) Clear() {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
}

// Render returns the last result in format together with its export file
// name. It returns report.ErrNoResult when there is no result.
func (s *Session) Render(format report.Format, opts report.Options) ([]byte, string, error) {
	data, err := report.Render(format, s.Last(), opts)
	if err != nil {
		return nil, "", err
	}
	s.metrics.ExportWritten(string(format))
	return data, report.FileName(format, s.now()), nil
}

// Export writes the last result into dir and returns the file path.
// It returns report.ErrNoResult when there is no result.
func (s *Session) Export(dir string, format report.Format, opts report.Options) (string, error) {
	path, err := report.Export(dir, s.Last(), format, s.now(), opts)
	if err != nil {
		return "", err
	}
	s.metrics.ExportWritten(string(format))
	s.logger.Debug("report exported", "path", path, "format", format)
	return path, nil
}
