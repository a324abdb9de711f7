package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/devrank/devrank/internal/app"
	"github.com/devrank/devrank/internal/domain/model"
	"github.com/devrank/devrank/pkg/logger"
)

const requestTimeout = 10 * time.Second

// Config controls a seeding run.
type Config struct {
	BaseURL  string
	NumUsers int
	MaxRepos int
	Version  string
}

// Runner seeds a running service over HTTP and verifies the leaderboard.
type Runner struct {
	cfg    Config
	client *http.Client
	logger logger.Logger
}

// NewRunner creates a Runner for the given configuration.
func NewRunner(cfg Config, log logger.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
		logger: log,
	}
}

// snapshotPayload mirrors the POST /users/{id}/snapshot request body.
type snapshotPayload struct {
	Name         string                `json:"name"`
	Login        string                `json:"login"`
	Image        string                `json:"image"`
	Repositories []model.RepoScoreData `json:"repositories"`
}

// Run posts snapshots for all synthetic users, then checks that the
// resulting rankings page is ordered by score descending.
func (r *Runner) Run(ctx context.Context) error {
	now := time.Now()
	for i := 0; i < r.cfg.NumUsers; i++ {
		user := GenerateUser(i)
		repos := GenerateRepos(r.cfg.MaxRepos, now)
		if err := r.postSnapshot(ctx, user, repos); err != nil {
			return fmt.Errorf("seed user %s: %w", user.Login, err)
		}
		r.logger.Debug(ctx, "seeded user",
			logger.String("login", user.Login),
			logger.Int("repos", len(repos)),
		)
	}
	return r.verifyRankings(ctx)
}

func (r *Runner) postSnapshot(ctx context.Context, user model.User, repos []model.RepoScoreData) error {
	payload := snapshotPayload{
		Name:         user.Name,
		Login:        user.Login,
		Image:        user.Image,
		Repositories: repos,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	url := fmt.Sprintf("%s/users/%s/snapshot?version=%s", r.cfg.BaseURL, user.ID, r.cfg.Version)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post snapshot: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post snapshot: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (r *Runner) verifyRankings(ctx context.Context) error {
	url := fmt.Sprintf("%s/rankings?page=1&limit=%d&version=%s", r.cfg.BaseURL, r.cfg.NumUsers, r.cfg.Version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch rankings: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch rankings: unexpected status %d", resp.StatusCode)
	}

	var result app.RankingsResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode rankings: %w", err)
	}

	for i := 1; i < len(result.Users); i++ {
		if result.Users[i].Score > result.Users[i-1].Score {
			return fmt.Errorf("rankings out of order at position %d", i+1)
		}
	}

	r.logger.Info(ctx, "seeding complete",
		logger.Int("seeded", r.cfg.NumUsers),
		logger.Int("ranked", len(result.Users)),
		logger.Int("total", result.Pagination.Total),
	)
	return nil
}
