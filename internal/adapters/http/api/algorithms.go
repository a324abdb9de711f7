// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// AlgorithmsHandler handles algorithm version listing and stats requests.
type AlgorithmsHandler struct {
	deps Dependencies
}

// NewAlgorithmsHandler creates a new algorithms handler.
func NewAlgorithmsHandler(deps Dependencies) *AlgorithmsHandler {
	return &AlgorithmsHandler{deps: deps}
}

// versionsResponse is the payload for GET /algorithms.
type versionsResponse struct {
	Versions []string `json:"versions"`
}

// HandleList handles GET /algorithms requests.
func (h *AlgorithmsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, versionsResponse{Versions: h.deps.Versions()})
}

// HandleStats handles GET /algorithms/{version}/stats requests.
func (h *AlgorithmsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/algorithms/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "stats" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadPath)
		return
	}
	stats, err := h.deps.GetAlgorithmStats(r.Context(), parts[0])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
