package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/qradar/internal/render"
)

// ChartHandler serves the encoded chart in one format.
type ChartHandler struct {
	deps   Dependencies
	format render.Format
}

// NewChartHandler creates a handler serving format.
func NewChartHandler(deps Dependencies, format render.Format) *ChartHandler {
	return &ChartHandler{deps: deps, format: format}
}

// HandleChart handles GET /chart.png and GET /chart.svg. The render id doubles
// as the ETag, so browsers revalidate cheaply.
func (h *ChartHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	c, err := h.deps.Chart(r.Context(), h.format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "render_failed", fmt.Errorf("%w: %w", ErrChartUnavailable, err))
		return
	}

	etag := strconv.Quote(c.ID)
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Render-ID", c.ID)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", c.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(c.Data)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(c.Data)
}
