// Package repository defines the persistence contracts of the scoring core
// and its in-memory and postgres implementations.
package repository

import (
	"context"

	"github.com/devrank/devrank/internal/domain/model"
)

// AlgorithmStats summarizes the persisted scores of one algorithm version.
type AlgorithmStats struct {
	Total    int     `json:"total"`
	AvgScore float64 `json:"avg_score"`
	MaxScore float64 `json:"max_score"`
	MinScore float64 `json:"min_score"`
}

// ScoreStore persists computed scores, one row per (user, version).
type ScoreStore interface {
	// UpsertScore inserts or replaces the score for (userID, version).
	UpsertScore(ctx context.Context, userID string, score float64, version string) (model.UserScore, error)

	// GetScore returns the stored score. Returns ErrNotFound if absent.
	GetScore(ctx context.Context, userID, version string) (model.UserScore, error)

	// GetRank returns the 1-based rank: the count of strictly higher scores
	// plus one. Returns ErrNotFound if the user has no score.
	GetRank(ctx context.Context, userID, version string) (int, error)

	// GetRankings returns one page of scores ordered by score DESC, then
	// calculated_at DESC, plus the total number of scored users.
	GetRankings(ctx context.Context, version string, page, limit int) ([]model.UserScore, int, error)

	// GetAlgorithmStats aggregates the scores of one version.
	GetAlgorithmStats(ctx context.Context, version string) (AlgorithmStats, error)

	// DeleteScore removes the score row. Reports whether a row existed.
	DeleteScore(ctx context.Context, userID, version string) (bool, error)
}

// StatsStore persists per-user aggregate statistics.
type StatsStore interface {
	// GetUserStats returns the stats snapshot. Returns ErrNotFound if absent.
	GetUserStats(ctx context.Context, userID string) (model.UserStats, error)

	// GetAllUserStats returns every stored stats snapshot.
	GetAllUserStats(ctx context.Context) ([]model.UserStats, error)

	// UpsertUserStats inserts or replaces a stats snapshot.
	UpsertUserStats(ctx context.Context, s model.UserStats) error
}

// UserStore persists user identity records.
type UserStore interface {
	// GetUserByID returns the identity record. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (model.User, error)

	// UpsertUser inserts or replaces an identity record.
	UpsertUser(ctx context.Context, u model.User) error
}

// RepoStore persists per-user repository snapshots.
type RepoStore interface {
	// GetUserRepositories returns the stored repo snapshot for a user.
	GetUserRepositories(ctx context.Context, userID string) ([]model.RepoScoreData, error)

	// ReplaceUserRepositories swaps the user's snapshot for a new one.
	ReplaceUserRepositories(ctx context.Context, userID string, repos []model.RepoScoreData) error
}

// Store bundles all persistence contracts behind one collaborator.
type Store interface {
	ScoreStore
	StatsStore
	UserStore
	RepoStore
}
