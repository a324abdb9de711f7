// Package model contains domain entities passed between layers.
package model

import (
	"encoding/json"
	"time"
)

// RepoScoreData is an immutable snapshot of one repository's scoring signals,
// as delivered by the external collector. The scoring core never mutates it.
type RepoScoreData struct {
	RepoID      string     `json:"repo_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Language    *string    `json:"language"`
	Stars       int        `json:"stars"`
	Forks       int        `json:"forks"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PushedAt    *time.Time `json:"pushed_at"`
}

// LastActivity returns the most recent of updated_at and pushed_at.
func (r RepoScoreData) LastActivity() time.Time {
	if r.PushedAt != nil && r.PushedAt.After(r.UpdatedAt) {
		return *r.PushedAt
	}
	return r.UpdatedAt
}

// LanguageDistribution maps a language name to its repo occurrence count.
type LanguageDistribution map[string]int

// Encode serializes the distribution to JSON for the persistence boundary.
func (d LanguageDistribution) Encode() string {
	if len(d) == 0 {
		return "{}"
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// DecodeLanguageDistribution parses a stored distribution. Malformed input
// yields an empty distribution rather than an error.
func DecodeLanguageDistribution(s string) LanguageDistribution {
	if s == "" {
		return LanguageDistribution{}
	}
	var d LanguageDistribution
	if err := json.Unmarshal([]byte(s), &d); err != nil || d == nil {
		return LanguageDistribution{}
	}
	return d
}

// UserStats is the per-user aggregate over a repo snapshot.
// Invariant: AIRepos <= TotalRepos.
type UserStats struct {
	UserID       string               `json:"user_id"`
	TotalRepos   int                  `json:"total_repos"`
	AIRepos      int                  `json:"ai_repos"`
	StarsSum     int                  `json:"stars_sum"`
	ForksSum     int                  `json:"forks_sum"`
	Languages    LanguageDistribution `json:"language_distribution"`
	LastUpdated  time.Time            `json:"last_updated"`
	CalculatedAt time.Time            `json:"calculated_at"`
}

// UserScore is a persisted score, unique per (user, algorithm version).
// Recomputation overwrites; no history is retained.
type UserScore struct {
	UserID           string    `json:"user_id"`
	Score            float64   `json:"score"`
	AlgorithmVersion string    `json:"algorithm_version"`
	CalculatedAt     time.Time `json:"calculated_at"`
}

// User is the identity record joined into ranking views.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
	Image string `json:"image"`
}

// RankingStats is the stats summary embedded in a ranking entry.
type RankingStats struct {
	TotalRepos   int       `json:"total_repos"`
	AIRepos      int       `json:"ai_repos"`
	StarsSum     int       `json:"stars_sum"`
	ForksSum     int       `json:"forks_sum"`
	TopLanguages []string  `json:"top_languages"`
	LastUpdated  time.Time `json:"last_updated"`
}

// RankingUser is a transient, per-request ranking view row.
// Rank is positional within the sorted, paginated result set, never stored.
type RankingUser struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Login string       `json:"login"`
	Image string       `json:"image"`
	Score float64      `json:"score"`
	Rank  int          `json:"rank"`
	Stats RankingStats `json:"stats"`
}
