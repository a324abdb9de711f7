package scoring

import (
	"context"
	"math"
	"time"

	"github.com/devrank/devrank/internal/domain/factors"
)

// VersionV1 is the version tag of the first algorithm generation.
const VersionV1 = "V1"

// Factor weights. Factors are pre-clamped to 100, so the weighted sum stays
// below the nominal ceiling before bonuses.
const (
	v1StarsWeight     = 0.25
	v1ForksWeight     = 0.15
	v1ActivityWeight  = 0.20
	v1DiversityWeight = 0.15
	v1AIBonusWeight   = 0.15
	v1RepoCountWeight = 0.10
)

// Bonus parameters. All three bonuses are multiplicative and time-relative,
// so the same stored stats decay slowly when recomputed on later days.
const (
	v1AgeBonusPerYear   = 0.02
	v1AgeBonusCeiling   = 1.2
	v1ConsistencyDays   = 90
	v1ConsistencyFactor = 0.15
	v1FinalScoreCeiling = 1000.0
	daysPerYear         = 365.0
	hoursPerDay         = 24.0
)

// Influence step thresholds on the single highest star count.
const (
	v1InfluenceStars1000 = 1000
	v1InfluenceStars500  = 500
	v1InfluenceStars100  = 100
	v1InfluenceStars50   = 50
)

// V1Option applies a configuration option to the V1 calculator.
type V1Option func(*V1)

// WithClock injects the time source. Tests use this to pin "now".
func WithClock(now func() time.Time) V1Option {
	return func(v *V1) {
		if now != nil {
			v.now = now
		}
	}
}

// V1 implements the first-generation weighted multi-factor algorithm.
type V1 struct {
	now func() time.Time
}

// NewV1 creates a V1 calculator reading the wall clock by default.
func NewV1(opts ...V1Option) *V1 {
	v := &V1{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Version returns "V1".
func (v *V1) Version() string {
	return VersionV1
}

// Calculate combines the factor sub-scores with fixed weights, applies the
// three multiplicative bonuses, and clamps the result into [0, 1000].
func (v *V1) Calculate(_ context.Context, in Input) (float64, error) {
	now := v.now()

	quality := factors.Quality(in.Repos)
	activity := factors.Activity(in.Repos, now)
	diversity := factors.Diversity(in.Repos)
	repoCount := factors.RepoCount(in.Stats.TotalRepos)
	aiRatio := factors.AIRatio(in.Stats.AIRepos, in.Stats.TotalRepos)

	weighted := quality*(v1StarsWeight+v1ForksWeight) +
		activity*v1ActivityWeight +
		diversity*v1DiversityWeight +
		aiRatio*v1AIBonusWeight +
		repoCount*v1RepoCountWeight

	score := weighted *
		v.earlyUserBonus(now, in) *
		v.consistencyBonus(now, in) *
		influenceBonus(in)

	return factors.Clamp(score, 0, v1FinalScoreCeiling), nil
}

// earlyUserBonus rewards account age, derived from the oldest repo creation
// time, capped at 1.2.
func (v *V1) earlyUserBonus(now time.Time, in Input) float64 {
	if len(in.Repos) == 0 {
		return 1.0
	}
	oldest := in.Repos[0].CreatedAt
	for _, r := range in.Repos[1:] {
		if r.CreatedAt.Before(oldest) {
			oldest = r.CreatedAt
		}
	}
	ageYears := now.Sub(oldest).Hours() / hoursPerDay / daysPerYear
	if ageYears < 0 {
		ageYears = 0
	}
	return math.Min(1+ageYears*v1AgeBonusPerYear, v1AgeBonusCeiling)
}

// consistencyBonus rewards the fraction of repos updated in the last 90 days.
func (v *V1) consistencyBonus(now time.Time, in Input) float64 {
	if len(in.Repos) == 0 {
		return 1.0
	}
	recent := 0
	for _, r := range in.Repos {
		if now.Sub(r.UpdatedAt).Hours()/hoursPerDay <= v1ConsistencyDays {
			recent++
		}
	}
	fraction := float64(recent) / float64(len(in.Repos))
	return 1 + fraction*v1ConsistencyFactor
}

// influenceBonus is a step function on the single highest star count.
func influenceBonus(in Input) float64 {
	maxStars := 0
	for _, r := range in.Repos {
		if r.Stars > maxStars {
			maxStars = r.Stars
		}
	}
	switch {
	case maxStars >= v1InfluenceStars1000:
		return 1.3
	case maxStars >= v1InfluenceStars500:
		return 1.2
	case maxStars >= v1InfluenceStars100:
		return 1.1
	case maxStars >= v1InfluenceStars50:
		return 1.05
	default:
		return 1.0
	}
}
