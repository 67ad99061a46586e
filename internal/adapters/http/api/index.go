package api

import (
	"net/http"
)

// IndexHandler serves a page that displays the chart.
type IndexHandler struct{}

// NewIndexHandler creates a new index handler.
func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

// HandleIndex handles GET /; any other unmatched path is a 404.
func (h *IndexHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if !allowRead(w, r) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Single-factor Explanation Power (q-value)</title>
    <style>body{margin:0;display:flex;justify-content:center;background:#fff}img{max-width:100vw;max-height:100vh}</style>
  </head>
  <body>
    <img src="/chart.png" alt="q-value radar chart">
  </body>
</html>`
