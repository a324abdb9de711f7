// Package stats aggregates a repo snapshot into per-user statistics.
package stats

import (
	"time"

	"github.com/devrank/devrank/internal/domain/classifier"
	"github.com/devrank/devrank/internal/domain/factors"
	"github.com/devrank/devrank/internal/domain/model"
)

// Build derives UserStats from a freshly collected repo snapshot. AI repos
// are counted by the classifier and last_updated is the latest repo activity.
func Build(userID string, repos []model.RepoScoreData, det *classifier.Classifier, now time.Time) model.UserStats {
	s := model.UserStats{
		UserID:       userID,
		TotalRepos:   len(repos),
		AIRepos:      det.CountAIProjects(repos),
		Languages:    factors.LanguageDistribution(repos),
		CalculatedAt: now,
	}
	for _, r := range repos {
		s.StarsSum += r.Stars
		s.ForksSum += r.Forks
		if activity := r.LastActivity(); activity.After(s.LastUpdated) {
			s.LastUpdated = activity
		}
	}
	return s
}
