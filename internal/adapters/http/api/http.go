// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devrank/devrank/internal/adapters/repository"
	"github.com/devrank/devrank/internal/app"
	"github.com/devrank/devrank/internal/domain/engine"
	"github.com/devrank/devrank/internal/domain/model"
)

// Dependencies bundles the service operations the handlers need. Keeping it
// as an interface keeps the handler layer loosely coupled to the app package.
type Dependencies interface {
	ComputeAndSaveScore(ctx context.Context, userID, version string) (model.UserScore, error)
	GetScore(ctx context.Context, userID, version string) (model.UserScore, error)
	GetRank(ctx context.Context, userID, version string) (int, error)
	GetRankings(ctx context.Context, q app.RankingsQuery) (app.RankingsResult, error)
	BatchComputeScores(ctx context.Context, userIDs []string, version string) (app.BatchResult, error)
	RecalculateAll(ctx context.Context, version string) (app.BatchResult, error)
	GetAlgorithmStats(ctx context.Context, version string) (repository.AlgorithmStats, error)
	IngestUserSnapshot(ctx context.Context, user model.User, repos []model.RepoScoreData, version string) (model.UserScore, error)
	Versions() []string
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	healthHandler     *HealthHandler
	rankingsHandler   *RankingsHandler
	usersHandler      *UsersHandler
	batchHandler      *BatchHandler
	algorithmsHandler *AlgorithmsHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		rankingsHandler:   NewRankingsHandler(deps),
		usersHandler:      NewUsersHandler(deps),
		batchHandler:      NewBatchHandler(deps),
		algorithmsHandler: NewAlgorithmsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.usersHandler.HandleUser, "users"))
	mux.HandleFunc("/scores/batch", MetricsMiddleware(s.batchHandler.HandleBatch, "scores_batch"))
	mux.HandleFunc("/scores/recalculate", MetricsMiddleware(s.batchHandler.HandleRecalculate, "scores_recalculate"))
	mux.HandleFunc("/algorithms", MetricsMiddleware(s.algorithmsHandler.HandleList, "algorithms"))
	mux.HandleFunc("/algorithms/", MetricsMiddleware(s.algorithmsHandler.HandleStats, "algorithm_stats"))
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

// writeServiceError translates core error kinds to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, engine.ErrAlgorithmNotFound):
		writeError(w, http.StatusNotFound, "algorithm_not_found", err)
	case errors.Is(err, app.ErrStatsNotFound), errors.Is(err, app.ErrNoRepositories),
		errors.Is(err, app.ErrMissingUserID):
		writeError(w, http.StatusBadRequest, "missing_input", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
