// Package app wires the scoring engine, classifier and store into the
// service operations exposed to the HTTP layer.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devrank/devrank/internal/adapters/batch"
	"github.com/devrank/devrank/internal/adapters/repository"
	"github.com/devrank/devrank/internal/domain/classifier"
	"github.com/devrank/devrank/internal/domain/engine"
	"github.com/devrank/devrank/internal/domain/factors"
	"github.com/devrank/devrank/internal/domain/model"
	"github.com/devrank/devrank/internal/domain/scoring"
	"github.com/devrank/devrank/internal/domain/stats"
	"github.com/devrank/devrank/pkg/logger"
	"github.com/devrank/devrank/pkg/metrics"
)

// Defaults for ranking pagination and batch processing.
const (
	defaultPageSize     = 20
	defaultMaxPageSize  = 100
	defaultTopLanguages = 3
	defaultBatchWorkers = 4
)

// RankingsQuery selects one page of the leaderboard.
type RankingsQuery struct {
	Page    int
	Limit   int
	Version string
}

// Pagination is the metadata returned with every rankings page.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// RankingsResult is one page of ranked users.
type RankingsResult struct {
	Users      []model.RankingUser `json:"users"`
	Pagination Pagination          `json:"pagination"`
}

// UserOutcome reports one user's result within a batch run.
type UserOutcome struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"score,omitempty"`
	OK     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
}

// BatchResult aggregates a batch run. The call itself never fails wholesale
// because of one bad item.
type BatchResult struct {
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Details []UserOutcome `json:"details"`
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence collaborator.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngine sets the scoring engine.
func WithEngine(e *engine.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithClassifier sets the AI project classifier.
func WithClassifier(c *classifier.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultVersion sets the algorithm version used when requests omit one.
func WithDefaultVersion(version string) Option {
	return func(s *Service) {
		if version != "" {
			s.defaultVersion = version
		}
	}
}

// WithDefaultPageSize sets the rankings page size used when requests omit one.
func WithDefaultPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultPageSize = n
		}
	}
}

// WithMaxPageSize caps the rankings page size.
func WithMaxPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPageSize = n
		}
	}
}

// WithBatchWorkers bounds batch recomputation concurrency.
func WithBatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchWorkers = n
		}
	}
}

// WithTopLanguages sets how many languages a ranking entry displays.
func WithTopLanguages(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topLanguages = n
		}
	}
}

// WithClock injects the time source used for stats aggregation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service implements the scoring and ranking operations. All dependencies
// are injected; there is no hidden global state.
type Service struct {
	store      repository.Store
	engine     *engine.Engine
	classifier *classifier.Classifier
	pool       *batch.Pool

	defaultVersion  string
	defaultPageSize int
	maxPageSize     int
	batchWorkers    int
	topLanguages    int

	now    func() time.Time
	logger logger.Logger
}

// New constructs a Service. A store must be provided; the engine defaults to
// one seeded with the V1 algorithm.
func New(opts ...Option) *Service {
	s := &Service{
		classifier:      classifier.New(),
		defaultVersion:  scoring.VersionV1,
		defaultPageSize: defaultPageSize,
		maxPageSize:     defaultMaxPageSize,
		batchWorkers:    defaultBatchWorkers,
		topLanguages:    defaultTopLanguages,
		now:             time.Now,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = engine.New(engine.WithCalculator(scoring.NewV1()))
	}
	s.pool = batch.NewPool(
		batch.WithWorkers(s.batchWorkers),
		batch.WithLogger(s.logger),
	)
	return s
}

// resolveVersion substitutes the default version for an empty request value.
func (s *Service) resolveVersion(version string) string {
	if version == "" {
		return s.defaultVersion
	}
	return version
}

// ComputeAndSaveScore computes the user's score and upserts it. Missing
// stats or an empty repo snapshot are explicit failures, never silent zeros.
func (s *Service) ComputeAndSaveScore(ctx context.Context, userID, version string) (model.UserScore, error) {
	version = s.resolveVersion(version)
	start := time.Now()

	userStats, err := s.store.GetUserStats(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.UserScore{}, fmt.Errorf("%w for user %s", ErrStatsNotFound, userID)
		}
		return model.UserScore{}, fmt.Errorf("load stats for user %s: %w", userID, err)
	}

	repos, err := s.store.GetUserRepositories(ctx, userID)
	if err != nil {
		return model.UserScore{}, fmt.Errorf("load repositories for user %s: %w", userID, err)
	}
	if len(repos) == 0 {
		return model.UserScore{}, fmt.Errorf("%w for user %s", ErrNoRepositories, userID)
	}

	score, err := s.engine.Calculate(ctx, scoring.Input{Stats: userStats, Repos: repos}, version)
	if err != nil {
		metrics.RecordScoringError(version)
		return model.UserScore{}, fmt.Errorf("calculate score for user %s: %w", userID, err)
	}

	saved, err := s.store.UpsertScore(ctx, userID, score, version)
	if err != nil {
		return model.UserScore{}, fmt.Errorf("save score for user %s: %w", userID, err)
	}

	metrics.RecordScoreComputed(version)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	s.logger.Debug(ctx, "score computed",
		logger.String("userID", userID),
		logger.String("version", version),
		logger.Float64("score", saved.Score),
	)
	return saved, nil
}

// GetScore returns the stored score for a user.
func (s *Service) GetScore(ctx context.Context, userID, version string) (model.UserScore, error) {
	return s.store.GetScore(ctx, userID, s.resolveVersion(version))
}

// GetRank returns the user's 1-based rank within an algorithm version.
func (s *Service) GetRank(ctx context.Context, userID, version string) (int, error) {
	return s.store.GetRank(ctx, userID, s.resolveVersion(version))
}

// DeleteScore removes a user's stored score.
func (s *Service) DeleteScore(ctx context.Context, userID, version string) (bool, error) {
	return s.store.DeleteScore(ctx, userID, s.resolveVersion(version))
}

// GetRankings assembles one leaderboard page. Score rows whose user or stats
// records are missing are skipped without shifting the positional rank of
// valid entries.
func (s *Service) GetRankings(ctx context.Context, q RankingsQuery) (RankingsResult, error) {
	version := s.resolveVersion(q.Version)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = s.defaultPageSize
	}
	if q.Limit > s.maxPageSize {
		q.Limit = s.maxPageSize
	}

	start := time.Now()
	rows, total, err := s.store.GetRankings(ctx, version, q.Page, q.Limit)
	if err != nil {
		return RankingsResult{}, fmt.Errorf("query rankings: %w", err)
	}

	users := make([]model.RankingUser, 0, len(rows))
	for _, row := range rows {
		user, err := s.store.GetUserByID(ctx, row.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			// Orphaned score row from a deleted user; tolerated.
			s.logger.Debug(ctx, "skipping orphaned score row", logger.String("userID", row.UserID))
			continue
		}
		if err != nil {
			return RankingsResult{}, fmt.Errorf("load user %s: %w", row.UserID, err)
		}
		userStats, err := s.store.GetUserStats(ctx, row.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug(ctx, "skipping score row without stats", logger.String("userID", row.UserID))
			continue
		}
		if err != nil {
			return RankingsResult{}, fmt.Errorf("load stats %s: %w", row.UserID, err)
		}

		users = append(users, model.RankingUser{
			ID:    user.ID,
			Name:  user.Name,
			Login: user.Login,
			Image: user.Image,
			Score: row.Score,
			Rank:  (q.Page-1)*q.Limit + len(users) + 1,
			Stats: model.RankingStats{
				TotalRepos:   userStats.TotalRepos,
				AIRepos:      userStats.AIRepos,
				StarsSum:     userStats.StarsSum,
				ForksSum:     userStats.ForksSum,
				TopLanguages: factors.TopLanguages(userStats.Languages, s.topLanguages),
				LastUpdated:  userStats.LastUpdated,
			},
		})
	}

	metrics.RecordRankingQuery()
	metrics.RecordRankingQueryLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateScoredUsers(version, total)

	return RankingsResult{
		Users: users,
		Pagination: Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: (total + q.Limit - 1) / q.Limit,
		},
	}, nil
}

// BatchComputeScores computes and saves scores for a set of users through
// the bounded worker pool. Per-user failures are isolated and reported in
// the per-item details.
func (s *Service) BatchComputeScores(ctx context.Context, userIDs []string, version string) (BatchResult, error) {
	version = s.resolveVersion(version)
	if _, err := s.algorithmKnown(version); err != nil {
		return BatchResult{}, err
	}
	metrics.RecordBatchRun()

	outcomes := s.pool.Run(ctx, dedupeIDs(userIDs), func(ctx context.Context, userID string) (float64, error) {
		saved, err := s.ComputeAndSaveScore(ctx, userID, version)
		if err != nil {
			return 0, err
		}
		return saved.Score, nil
	})

	result := BatchResult{Details: make([]UserOutcome, 0, len(outcomes))}
	for _, o := range outcomes {
		detail := UserOutcome{UserID: o.UserID, Score: o.Score, OK: o.Err == nil}
		if o.Err != nil {
			detail.Error = o.Err.Error()
			result.Failed++
			metrics.RecordBatchItemFailure()
		} else {
			result.Success++
		}
		result.Details = append(result.Details, detail)
	}

	s.logger.Info(ctx, "batch computation finished",
		logger.String("version", version),
		logger.Int("success", result.Success),
		logger.Int("failed", result.Failed),
	)
	return result, nil
}

// RecalculateAll recomputes every user that has a stats snapshot. This is a
// full scan; no incremental mode exists.
func (s *Service) RecalculateAll(ctx context.Context, version string) (BatchResult, error) {
	all, err := s.store.GetAllUserStats(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("load all user stats: %w", err)
	}
	userIDs := make([]string, len(all))
	for i, st := range all {
		userIDs[i] = st.UserID
	}
	return s.BatchComputeScores(ctx, userIDs, version)
}

// GetAlgorithmStats aggregates the stored scores of one version.
func (s *Service) GetAlgorithmStats(ctx context.Context, version string) (repository.AlgorithmStats, error) {
	version = s.resolveVersion(version)
	if _, err := s.algorithmKnown(version); err != nil {
		return repository.AlgorithmStats{}, err
	}
	return s.store.GetAlgorithmStats(ctx, version)
}

// Versions lists the registered algorithm versions.
func (s *Service) Versions() []string {
	return s.engine.Versions()
}

// IngestUserSnapshot persists a collector-delivered identity and repo
// snapshot, rebuilds the user's stats, and computes the score.
func (s *Service) IngestUserSnapshot(ctx context.Context, user model.User, repos []model.RepoScoreData, version string) (model.UserScore, error) {
	if user.ID == "" {
		return model.UserScore{}, ErrMissingUserID
	}
	if err := s.store.UpsertUser(ctx, user); err != nil {
		return model.UserScore{}, fmt.Errorf("store user %s: %w", user.ID, err)
	}
	if err := s.store.ReplaceUserRepositories(ctx, user.ID, repos); err != nil {
		return model.UserScore{}, fmt.Errorf("store repositories for %s: %w", user.ID, err)
	}
	userStats := stats.Build(user.ID, repos, s.classifier, s.now())
	if err := s.store.UpsertUserStats(ctx, userStats); err != nil {
		return model.UserScore{}, fmt.Errorf("store stats for %s: %w", user.ID, err)
	}
	return s.ComputeAndSaveScore(ctx, user.ID, version)
}

// algorithmKnown validates a version against the engine registry without
// running a computation.
func (s *Service) algorithmKnown(version string) (bool, error) {
	for _, v := range s.engine.Versions() {
		if v == version {
			return true, nil
		}
	}
	return false, fmt.Errorf("%w: %s", engine.ErrAlgorithmNotFound, version)
}

// dedupeIDs drops repeated user IDs while preserving first-seen order so a
// batch never computes the same (user, version) pair twice concurrently.
func dedupeIDs(userIDs []string) []string {
	seen := make(map[string]struct{}, len(userIDs))
	out := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
