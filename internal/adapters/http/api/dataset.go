package api

import (
	"net/http"

	"github.com/okian/qradar/internal/domain/qvalue"
)

// DatasetHandler serves the charted q-values as JSON.
type DatasetHandler struct {
	deps Dependencies
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(deps Dependencies) *DatasetHandler {
	return &DatasetHandler{deps: deps}
}

type datasetResponse struct {
	Factors []qvalue.Factor `json:"factors"`
	Series  []qvalue.Series `json:"series"`
}

// HandleDataset handles GET /dataset requests.
func (h *DatasetHandler) HandleDataset(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	ds := h.deps.Dataset()
	writeJSON(w, http.StatusOK, datasetResponse{Factors: ds.Factors, Series: ds.Series})
}
