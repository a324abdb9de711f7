// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// BatchHandler handles batch computation and full recalculation requests.
type BatchHandler struct {
	deps Dependencies
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(deps Dependencies) *BatchHandler {
	return &BatchHandler{deps: deps}
}

// batchRequest is the payload for POST /scores/batch.
type batchRequest struct {
	UserIDs []string `json:"user_ids"`
	Version string   `json:"version"`
}

func (b batchRequest) validate() error {
	if len(b.UserIDs) == 0 {
		return ErrEmptyUserID
	}
	for _, id := range b.UserIDs {
		if id == "" {
			return ErrEmptyUserID
		}
	}
	return nil
}

// recalculateRequest is the payload for POST /scores/recalculate.
type recalculateRequest struct {
	Version string `json:"version"`
}

// HandleBatch handles POST /scores/batch requests.
func (h *BatchHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadPayload)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := h.deps.BatchComputeScores(r.Context(), req.UserIDs, req.Version)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleRecalculate handles POST /scores/recalculate requests.
func (h *BatchHandler) HandleRecalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recalculateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadPayload)
			return
		}
	}
	result, err := h.deps.RecalculateAll(r.Context(), req.Version)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
