// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/launchdash/internal/adapters/session"
	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ControlsDependencies
	ChartDependencies
	SessionDependencies
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	controlsHandler  *ControlsHandler
	chartsHandler    *ChartsHandler
	sessionsHandler  *SessionsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		controlsHandler:  NewControlsHandler(deps),
		chartsHandler:    NewChartsHandler(deps),
		sessionsHandler:  NewSessionsHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/api/controls", MetricsMiddleware(s.controlsHandler.HandleGetControls, "controls"))
	mux.HandleFunc("/api/charts/pie", MetricsMiddleware(s.chartsHandler.HandlePie, "chart_pie"))
	mux.HandleFunc("/api/charts/scatter", MetricsMiddleware(s.chartsHandler.HandleScatter, "chart_scatter"))
	mux.HandleFunc("/api/charts/pie.png", MetricsMiddleware(s.chartsHandler.HandlePiePNG, "chart_pie_png"))
	mux.HandleFunc("/api/charts/scatter.png", MetricsMiddleware(s.chartsHandler.HandleScatterPNG, "chart_scatter_png"))
	mux.HandleFunc("/api/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("/api/sessions/", MetricsMiddleware(s.sessionsHandler.HandleSession, "session"))
	mux.HandleFunc("/{$}", s.dashboardHandler.HandleRoot)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before touching the response, so a value that cannot
// be encoded becomes a 500 instead of a success status with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Get().Error(context.Background(), "encode response", logger.Error(err))
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorResponse{
			Code:    "internal_error",
			Message: "response could not be encoded",
		})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err to a status code by kind and writes it.
func writeFailure(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrNotFound), errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrUnavailable), errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		logger.Get().Error(ctx, "request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
