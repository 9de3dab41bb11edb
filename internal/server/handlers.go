package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nao1215/darkcti/internal/config"
	"github.com/nao1215/darkcti/internal/report"
	"github.com/nao1215/darkcti/internal/search"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

var (
	errBadRequestBody = errors.New("invalid request body")
	errNoSettings     = errors.New("settings storage is not available")
	errNoChecker      = errors.New("status checks are not available")
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "version": s.version})
}

type searchRequest struct {
	Query string `json:"query"`
}

// searchStatus maps session errors to HTTP status codes.
func searchStatus(err error) int {
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrSearchInProgress):
		return http.StatusConflict
	case errors.Is(err, config.ErrProviderNotConfigured):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	run, err := s.session.Start(r.Context(), req.Query)
	if err != nil {
		writeError(w, searchStatus(err), err)
		return
	}

	if stream, _ := strconv.ParseBool(r.URL.Query().Get("stream")); stream {
		s.streamSearch(w, run)
		return
	}

	result, err := run.Wait()
	if err != nil {
		s.logger.Warn("search failed", "error", err)
		writeError(w, searchStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewJSONResult(result))
}

// streamEvent is one NDJSON line of a streamed search.
type streamEvent struct {
	Type     string             `json:"type"`
	Index    int                `json:"index,omitempty"`
	Total    int                `json:"total,omitempty"`
	Phase    string             `json:"phase,omitempty"`
	Result   *report.JSONResult `json:"result,omitempty"`
	ErrorMsg string             `json:"error,omitempty"`
}

// streamSearch writes one line per phase followed by the result or the error.
func (s *Server) streamSearch(w http.ResponseWriter, run *search.Run) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	send := func(ev streamEvent) {
		if err := enc.Encode(ev); err != nil {
			s.logger.Debug("failed to write stream event", "error", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	for p := range run.Progress() {
		send(streamEvent{Type: "progress", Index: p.Index, Total: p.Total, Phase: p.Phase.Name})
	}

	result, err := run.Wait()
	if err != nil {
		send(streamEvent{Type: "error", ErrorMsg: err.Error()})
		return
	}
	jr := report.NewJSONResult(result)
	send(streamEvent{Type: "result", Result: &jr})
}

func (s *Server) handleGetResult(w http.ResponseWriter, _ *http.Request) {
	result := s.session.Last()
	if result == nil {
		writeError(w, http.StatusNotFound, report.ErrNoResult)
		return
	}
	writeJSON(w, http.StatusOK, report.NewJSONResult(result))
}

func (s *Server) handleClearResult(w http.ResponseWriter, _ *http.Request) {
	s.session.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	chart, _ := strconv.ParseBool(q.Get("chart"))
	alert, _ := strconv.ParseBool(q.Get("alert"))
	opts := report.Options{PieChart: chart, RiskAlert: alert, Version: s.version}

	data, name, err := s.session.Render(format, opts)
	if errors.Is(err, report.ErrNoResult) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		writeError(w, http.StatusServiceUnavailable, errNoChecker)
		return
	}
	writeJSON(w, http.StatusOK, s.checker.Check(r.Context()))
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		writeError(w, http.StatusServiceUnavailable, errNoSettings)
		return
	}
	cfg, err := s.settings.LoadProvider(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg.Redacted())
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		writeError(w, http.StatusServiceUnavailable, errNoSettings)
		return
	}

	// Start from the saved configuration so a partial body only changes
	// the fields it names.
	cfg, err := s.settings.LoadProvider(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(cfg); err != nil {
		writeError(w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	p, err := config.ParseProvider(cfg.Provider.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg.Provider = p

	if err := s.settings.SaveProvider(r.Context(), cfg); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrInvalidProvider) || errors.Is(err, config.ErrOllamaEndpointIncomplete) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	s.logger.Debug("provider configuration saved", "provider", cfg)
	writeJSON(w, http.StatusOK, cfg.Redacted())
}

type connectionTestResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (s *Server) handleTestConfig(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		writeError(w, http.StatusServiceUnavailable, errNoSettings)
		return
	}
	cfg, err := s.settings.LoadProvider(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := cfg.TestConnection(); err != nil {
		writeJSON(w, http.StatusOK, connectionTestResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, connectionTestResponse{OK: true, Message: "connection successful"})
}

func (s *Server) handleQueries(w http.ResponseWriter, _ *http.Request) {
	queries := s.queries
	if queries == nil {
		queries = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"queries": queries})
}
