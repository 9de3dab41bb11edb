package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/darkcti/internal/config"
	"github.com/nao1215/darkcti/internal/health"
	"github.com/nao1215/darkcti/internal/metrics"
	"github.com/nao1215/darkcti/internal/search"
)

const (
	// requestTimeout must exceed the longest search, including phase delays.
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Settings persists the provider configuration.
type Settings interface {
	LoadProvider(ctx context.Context) (*config.ProviderConfig, error)
	SaveProvider(ctx context.Context, cfg *config.ProviderConfig) error
}

// Server is the HTTP front-end of a search session.
type Server struct {
	session  *search.Session
	settings Settings
	checker  *health.Checker
	metrics  *metrics.Metrics
	logger   *slog.Logger
	version  string
	queries  []string
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithSettings enables the configuration endpoints.
func WithSettings(s Settings) Option {
	return func(srv *Server) {
		srv.settings = s
	}
}

// WithChecker enables the status endpoint.
func WithChecker(c *health.Checker) Option {
	return func(srv *Server) {
		srv.checker = c
	}
}

// WithMetrics serves m on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(srv *Server) {
		srv.metrics = m
	}
}

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(srv *Server) {
		if logger != nil {
			srv.logger = logger
		}
	}
}

// WithVersion is reported by /health and embedded in JSON exports.
func WithVersion(v string) Option {
	return func(srv *Server) {
		srv.version = v
	}
}

// WithSampleQueries sets the list served by /api/v1/queries.
func WithSampleQueries(queries []string) Option {
	return func(srv *Server) {
		srv.queries = queries
	}
}

// New creates a Server around session.
func New(session *search.Session, opts ...Option) *Server {
	srv := &Server{
		session: session,
		logger:  slog.Default(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.router = srv.routes()
	return srv
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)

		r.Get("/result", s.handleGetResult)
		r.Delete("/result", s.handleClearResult)
		r.Get("/export/{format}", s.handleExport)

		r.Get("/status", s.handleStatus)

		r.Route("/config", func(r chi.Router) {
			r.Get("/", s.handleGetConfig)
			r.Put("/", s.handlePutConfig)
			r.Post("/test", s.handleTestConfig)
		})

		r.Get("/queries", s.handleQueries)
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
