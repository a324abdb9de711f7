package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/devrank/devrank/internal/domain/model"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and runs
// the service without a database (empty DSN).
type MemoryStore struct {
	mu sync.RWMutex

	users map[string]model.User
	repos map[string][]model.RepoScoreData
	stats map[string]model.UserStats
	// scores keyed by version, then user id.
	scores map[string]map[string]model.UserScore

	now func() time.Time
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock injects the time source used for calculated_at stamps.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		users:  make(map[string]model.User),
		repos:  make(map[string][]model.RepoScoreData),
		stats:  make(map[string]model.UserStats),
		scores: make(map[string]map[string]model.UserScore),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpsertScore inserts or replaces the score for (userID, version).
func (s *MemoryStore) UpsertScore(_ context.Context, userID string, score float64, version string) (model.UserScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := model.UserScore{
		UserID:           userID,
		Score:            score,
		AlgorithmVersion: version,
		CalculatedAt:     s.now(),
	}
	if s.scores[version] == nil {
		s.scores[version] = make(map[string]model.UserScore)
	}
	s.scores[version][userID] = row
	return row, nil
}

// GetScore returns the stored score for (userID, version).
func (s *MemoryStore) GetScore(_ context.Context, userID, version string) (model.UserScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.scores[version][userID]
	if !ok {
		return model.UserScore{}, ErrNotFound
	}
	return row, nil
}

// GetRank returns the count of strictly higher scores plus one.
func (s *MemoryStore) GetRank(_ context.Context, userID, version string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.scores[version][userID]
	if !ok {
		return 0, ErrNotFound
	}
	higher := 0
	for _, other := range s.scores[version] {
		if other.Score > row.Score {
			higher++
		}
	}
	return higher + 1, nil
}

// GetRankings returns one page ordered by score DESC, calculated_at DESC.
// Ties beyond that are broken by user id for reproducible pagination.
func (s *MemoryStore) GetRankings(_ context.Context, version string, page, limit int) ([]model.UserScore, int, error) {
	if page < 1 {
		return nil, 0, ErrInvalidPage
	}
	if limit < 1 {
		return nil, 0, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]model.UserScore, 0, len(s.scores[version]))
	for _, row := range s.scores[version] {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if !rows[i].CalculatedAt.Equal(rows[j].CalculatedAt) {
			return rows[i].CalculatedAt.After(rows[j].CalculatedAt)
		}
		return rows[i].UserID < rows[j].UserID
	})

	total := len(rows)
	offset := (page - 1) * limit
	if offset >= total {
		return []model.UserScore{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return rows[offset:end], total, nil
}

// GetAlgorithmStats aggregates the stored scores of one version.
func (s *MemoryStore) GetAlgorithmStats(_ context.Context, version string) (AlgorithmStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out AlgorithmStats
	for _, row := range s.scores[version] {
		if out.Total == 0 || row.Score > out.MaxScore {
			out.MaxScore = row.Score
		}
		if out.Total == 0 || row.Score < out.MinScore {
			out.MinScore = row.Score
		}
		out.AvgScore += row.Score
		out.Total++
	}
	if out.Total > 0 {
		out.AvgScore /= float64(out.Total)
	}
	return out, nil
}

// DeleteScore removes the score row for (userID, version).
func (s *MemoryStore) DeleteScore(_ context.Context, userID, version string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scores[version][userID]; !ok {
		return false, nil
	}
	delete(s.scores[version], userID)
	return true, nil
}

// GetUserStats returns the stats snapshot for a user.
func (s *MemoryStore) GetUserStats(_ context.Context, userID string) (model.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stats[userID]
	if !ok {
		return model.UserStats{}, ErrNotFound
	}
	return st, nil
}

// GetAllUserStats returns every stored stats snapshot, ordered by user id.
func (s *MemoryStore) GetAllUserStats(_ context.Context) ([]model.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.UserStats, 0, len(s.stats))
	for _, st := range s.stats {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// UpsertUserStats inserts or replaces a stats snapshot.
func (s *MemoryStore) UpsertUserStats(_ context.Context, st model.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats[st.UserID] = st
	return nil
}

// GetUserByID returns the identity record for a user.
func (s *MemoryStore) GetUserByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// UpsertUser inserts or replaces an identity record.
func (s *MemoryStore) UpsertUser(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
	return nil
}

// GetUserRepositories returns the stored repo snapshot for a user.
func (s *MemoryStore) GetUserRepositories(_ context.Context, userID string) ([]model.RepoScoreData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repos := s.repos[userID]
	out := make([]model.RepoScoreData, len(repos))
	copy(out, repos)
	return out, nil
}

// ReplaceUserRepositories swaps the user's snapshot for a new one.
func (s *MemoryStore) ReplaceUserRepositories(_ context.Context, userID string, repos []model.RepoScoreData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]model.RepoScoreData, len(repos))
	copy(stored, repos)
	s.repos[userID] = stored
	return nil
}

// DeleteUser removes a user identity, keeping any score rows orphaned. The
// ranking query layer tolerates such rows by skipping them.
func (s *MemoryStore) DeleteUser(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	delete(s.stats, id)
	delete(s.repos, id)
}
