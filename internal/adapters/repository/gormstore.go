package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devrank/devrank/internal/domain/model"
)

// userRecord is the users table row.
type userRecord struct {
	ID    string `gorm:"primaryKey"`
	Name  string
	Login string
	Image string
}

func (userRecord) TableName() string { return "users" }

// repoRecord is the user_repositories table row. Timestamps come from the
// collector snapshot, so gorm's automatic stamping is disabled.
type repoRecord struct {
	RepoID      string `gorm:"primaryKey"`
	UserID      string `gorm:"index"`
	Name        string
	Description *string
	Language    *string
	Stars       int
	Forks       int
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
	PushedAt    *time.Time
}

func (repoRecord) TableName() string { return "user_repositories" }

// statsRecord is the user_stats table row. The language distribution is
// stored as opaque JSON text and decoded defensively on the way out.
type statsRecord struct {
	UserID       string `gorm:"primaryKey"`
	TotalRepos   int
	AIRepos      int `gorm:"column:ai_repos"`
	StarsSum     int
	ForksSum     int
	Languages    string `gorm:"type:text"`
	LastUpdated  time.Time
	CalculatedAt time.Time
}

func (statsRecord) TableName() string { return "user_stats" }

// scoreRecord is the user_scores table row, unique per (user, version).
type scoreRecord struct {
	UserID           string `gorm:"primaryKey"`
	AlgorithmVersion string `gorm:"primaryKey"`
	Score            float64
	CalculatedAt     time.Time
}

func (scoreRecord) TableName() string { return "user_scores" }

// GormStore is the postgres-backed Store.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// GormOption applies a configuration option to the GormStore.
type GormOption func(*GormStore)

// WithGormClock injects the time source used for calculated_at stamps.
func WithGormClock(now func() time.Time) GormOption {
	return func(s *GormStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewGormStore connects to postgres and migrates the schema.
func NewGormStore(dsn string, opts ...GormOption) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(&userRecord{}, &repoRecord{}, &statsRecord{}, &scoreRecord{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return newGormStore(db, opts...), nil
}

// newGormStore wraps an existing gorm handle. Split out for tests.
func newGormStore(db *gorm.DB, opts ...GormOption) *GormStore {
	s := &GormStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpsertScore inserts or replaces the score for (userID, version).
func (s *GormStore) UpsertScore(ctx context.Context, userID string, score float64, version string) (model.UserScore, error) {
	row := scoreRecord{
		UserID:           userID,
		AlgorithmVersion: version,
		Score:            score,
		CalculatedAt:     s.now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "algorithm_version"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "calculated_at"}),
	}).Create(&row).Error
	if err != nil {
		return model.UserScore{}, fmt.Errorf("upsert score: %w", err)
	}
	return scoreFromRecord(row), nil
}

// GetScore returns the stored score for (userID, version).
func (s *GormStore) GetScore(ctx context.Context, userID, version string) (model.UserScore, error) {
	var row scoreRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND algorithm_version = ?", userID, version).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserScore{}, ErrNotFound
	}
	if err != nil {
		return model.UserScore{}, fmt.Errorf("get score: %w", err)
	}
	return scoreFromRecord(row), nil
}

// GetRank returns the count of strictly higher scores plus one.
func (s *GormStore) GetRank(ctx context.Context, userID, version string) (int, error) {
	row, err := s.GetScore(ctx, userID, version)
	if err != nil {
		return 0, err
	}
	var higher int64
	err = s.db.WithContext(ctx).Model(&scoreRecord{}).
		Where("algorithm_version = ? AND score > ?", version, row.Score).
		Count(&higher).Error
	if err != nil {
		return 0, fmt.Errorf("get rank: %w", err)
	}
	return int(higher) + 1, nil
}

// GetRankings returns one page ordered by score DESC, calculated_at DESC.
func (s *GormStore) GetRankings(ctx context.Context, version string, page, limit int) ([]model.UserScore, int, error) {
	if page < 1 {
		return nil, 0, ErrInvalidPage
	}
	if limit < 1 {
		return nil, 0, ErrInvalidLimit
	}

	var total int64
	err := s.db.WithContext(ctx).Model(&scoreRecord{}).
		Where("algorithm_version = ?", version).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count scores: %w", err)
	}

	var rows []scoreRecord
	err = s.db.WithContext(ctx).
		Where("algorithm_version = ?", version).
		Order("score DESC, calculated_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("query rankings: %w", err)
	}

	out := make([]model.UserScore, len(rows))
	for i, row := range rows {
		out[i] = scoreFromRecord(row)
	}
	return out, int(total), nil
}

// GetAlgorithmStats aggregates the stored scores of one version.
func (s *GormStore) GetAlgorithmStats(ctx context.Context, version string) (AlgorithmStats, error) {
	var agg struct {
		Total int
		Avg   sql.NullFloat64
		Max   sql.NullFloat64
		Min   sql.NullFloat64
	}
	err := s.db.WithContext(ctx).Model(&scoreRecord{}).
		Select("COUNT(*) AS total, AVG(score) AS avg, MAX(score) AS max, MIN(score) AS min").
		Where("algorithm_version = ?", version).
		Scan(&agg).Error
	if err != nil {
		return AlgorithmStats{}, fmt.Errorf("algorithm stats: %w", err)
	}
	return AlgorithmStats{
		Total:    agg.Total,
		AvgScore: agg.Avg.Float64,
		MaxScore: agg.Max.Float64,
		MinScore: agg.Min.Float64,
	}, nil
}

// DeleteScore removes the score row for (userID, version).
func (s *GormStore) DeleteScore(ctx context.Context, userID, version string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND algorithm_version = ?", userID, version).
		Delete(&scoreRecord{})
	if res.Error != nil {
		return false, fmt.Errorf("delete score: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetUserStats returns the stats snapshot for a user.
func (s *GormStore) GetUserStats(ctx context.Context, userID string) (model.UserStats, error) {
	var row statsRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserStats{}, ErrNotFound
	}
	if err != nil {
		return model.UserStats{}, fmt.Errorf("get user stats: %w", err)
	}
	return statsFromRecord(row), nil
}

// GetAllUserStats returns every stored stats snapshot.
func (s *GormStore) GetAllUserStats(ctx context.Context) ([]model.UserStats, error) {
	var rows []statsRecord
	if err := s.db.WithContext(ctx).Order("user_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get all user stats: %w", err)
	}
	out := make([]model.UserStats, len(rows))
	for i, row := range rows {
		out[i] = statsFromRecord(row)
	}
	return out, nil
}

// UpsertUserStats inserts or replaces a stats snapshot.
func (s *GormStore) UpsertUserStats(ctx context.Context, st model.UserStats) error {
	row := statsRecord{
		UserID:       st.UserID,
		TotalRepos:   st.TotalRepos,
		AIRepos:      st.AIRepos,
		StarsSum:     st.StarsSum,
		ForksSum:     st.ForksSum,
		Languages:    st.Languages.Encode(),
		LastUpdated:  st.LastUpdated,
		CalculatedAt: st.CalculatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert user stats: %w", err)
	}
	return nil
}

// GetUserByID returns the identity record for a user.
func (s *GormStore) GetUserByID(ctx context.Context, id string) (model.User, error) {
	var row userRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return model.User{ID: row.ID, Name: row.Name, Login: row.Login, Image: row.Image}, nil
}

// UpsertUser inserts or replaces an identity record.
func (s *GormStore) UpsertUser(ctx context.Context, u model.User) error {
	row := userRecord{ID: u.ID, Name: u.Name, Login: u.Login, Image: u.Image}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUserRepositories returns the stored repo snapshot for a user.
func (s *GormStore) GetUserRepositories(ctx context.Context, userID string) ([]model.RepoScoreData, error) {
	var rows []repoRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("repo_id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get user repositories: %w", err)
	}
	out := make([]model.RepoScoreData, len(rows))
	for i, row := range rows {
		out[i] = model.RepoScoreData{
			RepoID:      row.RepoID,
			Name:        row.Name,
			Description: row.Description,
			Language:    row.Language,
			Stars:       row.Stars,
			Forks:       row.Forks,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
			PushedAt:    row.PushedAt,
		}
	}
	return out, nil
}

// ReplaceUserRepositories swaps the user's snapshot for a new one.
func (s *GormStore) ReplaceUserRepositories(ctx context.Context, userID string, repos []model.RepoScoreData) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&repoRecord{}).Error; err != nil {
			return fmt.Errorf("clear repositories: %w", err)
		}
		if len(repos) == 0 {
			return nil
		}
		rows := make([]repoRecord, len(repos))
		for i, r := range repos {
			rows[i] = repoRecord{
				RepoID:      r.RepoID,
				UserID:      userID,
				Name:        r.Name,
				Description: r.Description,
				Language:    r.Language,
				Stars:       r.Stars,
				Forks:       r.Forks,
				CreatedAt:   r.CreatedAt,
				UpdatedAt:   r.UpdatedAt,
				PushedAt:    r.PushedAt,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("store repositories: %w", err)
		}
		return nil
	})
}

func scoreFromRecord(row scoreRecord) model.UserScore {
	return model.UserScore{
		UserID:           row.UserID,
		Score:            row.Score,
		AlgorithmVersion: row.AlgorithmVersion,
		CalculatedAt:     row.CalculatedAt,
	}
}

func statsFromRecord(row statsRecord) model.UserStats {
	return model.UserStats{
		UserID:       row.UserID,
		TotalRepos:   row.TotalRepos,
		AIRepos:      row.AIRepos,
		StarsSum:     row.StarsSum,
		ForksSum:     row.ForksSum,
		Languages:    model.DecodeLanguageDistribution(row.Languages),
		LastUpdated:  row.LastUpdated,
		CalculatedAt: row.CalculatedAt,
	}
}
