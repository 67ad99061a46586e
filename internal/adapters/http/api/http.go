// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/qradar/internal/app"
	"github.com/okian/qradar/internal/domain/qvalue"
	"github.com/okian/qradar/internal/render"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Chart returns the encoded chart in the requested format.
	Chart(ctx context.Context, format render.Format) (*service.Chart, error)
	// Dataset returns the charted data.
	Dataset() qvalue.Dataset
}

// Server wires HTTP routes for the chart API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	datasetHandler *DatasetHandler
	pngHandler     *ChartHandler
	svgHandler     *ChartHandler
	indexHandler   *IndexHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		datasetHandler: NewDatasetHandler(deps),
		pngHandler:     NewChartHandler(deps, render.FormatPNG),
		svgHandler:     NewChartHandler(deps, render.FormatSVG),
		indexHandler:   NewIndexHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dataset", MetricsMiddleware(s.datasetHandler.HandleDataset, "dataset"))
	mux.HandleFunc("/chart.png", MetricsMiddleware(s.pngHandler.HandleChart, "chart_png"))
	mux.HandleFunc("/chart.svg", MetricsMiddleware(s.svgHandler.HandleChart, "chart_svg"))
	mux.HandleFunc("/", MetricsMiddleware(s.indexHandler.HandleIndex, "index"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// allowRead rejects anything but GET and HEAD with a 405.
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
	return false
}
