// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/devrank/devrank/internal/domain/model"
)

// UsersHandler handles per-user score, rank and snapshot requests.
type UsersHandler struct {
	deps Dependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps Dependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// snapshotRequest is the payload for POST /users/{id}/snapshot.
type snapshotRequest struct {
	Name         string                `json:"name"`
	Login        string                `json:"login"`
	Image        string                `json:"image"`
	Repositories []model.RepoScoreData `json:"repositories"`
}

// rankResponse is the payload for GET /users/{id}/rank.
type rankResponse struct {
	UserID  string `json:"user_id"`
	Version string `json:"version"`
	Rank    int    `json:"rank"`
}

// HandleUser dispatches /users/{id}/{score|rank|snapshot} requests.
func (h *UsersHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/users/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadPath)
		return
	}
	userID, action := parts[0], parts[1]
	version := r.URL.Query().Get("version")

	switch {
	case action == "score" && r.Method == http.MethodGet:
		h.handleGetScore(w, r, userID, version)
	case action == "score" && r.Method == http.MethodPost:
		h.handleComputeScore(w, r, userID, version)
	case action == "rank" && r.Method == http.MethodGet:
		h.handleGetRank(w, r, userID, version)
	case action == "snapshot" && r.Method == http.MethodPost:
		h.handleSnapshot(w, r, userID, version)
	default:
		http.NotFound(w, r)
	}
}

func (h *UsersHandler) handleGetScore(w http.ResponseWriter, r *http.Request, userID, version string) {
	score, err := h.deps.GetScore(r.Context(), userID, version)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (h *UsersHandler) handleComputeScore(w http.ResponseWriter, r *http.Request, userID, version string) {
	score, err := h.deps.ComputeAndSaveScore(r.Context(), userID, version)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (h *UsersHandler) handleGetRank(w http.ResponseWriter, r *http.Request, userID, version string) {
	rank, err := h.deps.GetRank(r.Context(), userID, version)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankResponse{UserID: userID, Version: version, Rank: rank})
}

func (h *UsersHandler) handleSnapshot(w http.ResponseWriter, r *http.Request, userID, version string) {
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadPayload)
		return
	}
	user := model.User{ID: userID, Name: req.Name, Login: req.Login, Image: req.Image}
	score, err := h.deps.IngestUserSnapshot(r.Context(), user, req.Repositories, version)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}
