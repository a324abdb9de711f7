// Package factors contains the pure sub-score functions combined by the
// scoring algorithms. Every function returns 0 on empty input, never NaN.
package factors

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/devrank/devrank/internal/domain/model"
)

const (
	factorCeiling = 100.0

	activeWindowDays     = 365
	decayHalfLifeDays    = 30.0
	diversityPerLanguage = 10.0
	repoCountScale       = 25.0

	qualityStarsScale = 10.0
	qualityForksScale = 5.0

	aiRatioScale = 50.0
	aiCountScale = 5.0
)

// Quality scores total stars and forks with logarithmic damping so a single
// viral repo cannot dominate. Result in [0,100].
func Quality(repos []model.RepoScoreData) float64 {
	if len(repos) == 0 {
		return 0
	}
	totalStars, totalForks := 0, 0
	for _, r := range repos {
		totalStars += r.Stars
		totalForks += r.Forks
	}
	score := math.Log10(float64(totalStars)+1)*qualityStarsScale +
		math.Log10(float64(totalForks)+1)*qualityForksScale
	return Clamp(score, 0, factorCeiling)
}

// Activity scores the share of repos updated within the last year plus the
// average freshness of those active repos. Result in [0,100].
func Activity(repos []model.RepoScoreData, now time.Time) float64 {
	if len(repos) == 0 {
		return 0
	}

	active := 0
	freshness := 0.0
	for _, r := range repos {
		days := now.Sub(r.UpdatedAt).Hours() / 24
		if days <= activeWindowDays {
			active++
			freshness += math.Max(0, activeWindowDays-days) / activeWindowDays
		}
	}

	ratio := float64(active) / float64(len(repos))
	divisor := float64(active)
	if divisor == 0 {
		divisor = 1
	}
	avgFreshness := freshness / divisor

	return Clamp(ratio*50+avgFreshness*50, 0, factorCeiling)
}

// Diversity scores the number of distinct languages. Result in [0,100].
func Diversity(repos []model.RepoScoreData) float64 {
	if len(repos) == 0 {
		return 0
	}
	seen := make(map[string]struct{})
	for _, r := range repos {
		if r.Language == nil {
			continue
		}
		seen[strings.ToLower(*r.Language)] = struct{}{}
	}
	return Clamp(float64(len(seen))*diversityPerLanguage, 0, factorCeiling)
}

// RepoCount scores the repository count with logarithmic damping. Result in [0,100].
func RepoCount(count int) float64 {
	if count <= 0 {
		return 0
	}
	return Clamp(math.Log10(float64(count)+1)*repoCountScale, 0, factorCeiling)
}

// AIRatio scores the share and absolute number of AI repos. Result in [0,100].
func AIRatio(aiCount, totalCount int) float64 {
	if totalCount <= 0 {
		return 0
	}
	score := math.Sqrt(float64(aiCount)/float64(totalCount))*aiRatioScale +
		float64(aiCount)*aiCountScale
	return Clamp(score, 0, factorCeiling)
}

// Originality scores the fraction of repos that are not derivative work:
// either never forked or with more stars than forks. Result in [0,100].
func Originality(repos []model.RepoScoreData) float64 {
	if len(repos) == 0 {
		return 0
	}
	original := 0
	for _, r := range repos {
		if r.Forks == 0 || r.Stars > r.Forks {
			original++
		}
	}
	return float64(original) / float64(len(repos)) * 100
}

// TimeDecay is an exponential decay helper with a 30-day half-life scale.
// Reserved for algorithm versions beyond V1.
func TimeDecay(daysSince float64) float64 {
	if daysSince < 0 {
		daysSince = 0
	}
	return math.Exp(-daysSince / decayHalfLifeDays)
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// LanguageDistribution counts repos per language. Repos without a language
// are skipped. Language names keep their original casing.
func LanguageDistribution(repos []model.RepoScoreData) model.LanguageDistribution {
	dist := model.LanguageDistribution{}
	for _, r := range repos {
		if r.Language == nil || *r.Language == "" {
			continue
		}
		dist[*r.Language]++
	}
	return dist
}

// TopLanguages returns the n most frequent languages, count descending.
// Equal counts are ordered alphabetically so the result is deterministic.
func TopLanguages(dist model.LanguageDistribution, n int) []string {
	if n <= 0 || len(dist) == 0 {
		return nil
	}
	langs := make([]string, 0, len(dist))
	for lang := range dist {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if dist[langs[i]] != dist[langs[j]] {
			return dist[langs[i]] > dist[langs[j]]
		}
		return langs[i] < langs[j]
	})
	if len(langs) > n {
		langs = langs[:n]
	}
	return langs
}
