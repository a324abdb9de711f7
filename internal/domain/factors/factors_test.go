package factors_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/devrank/devrank/internal/domain/factors"
	"github.com/devrank/devrank/internal/domain/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func repoWith(stars, forks int, lang string, updatedDaysAgo int) model.RepoScoreData {
	r := model.RepoScoreData{
		RepoID:    "r1",
		Name:      "repo",
		Stars:     stars,
		Forks:     forks,
		CreatedAt: testNow.AddDate(-1, 0, 0),
		UpdatedAt: testNow.AddDate(0, 0, -updatedDaysAgo),
	}
	if lang != "" {
		r.Language = strPtr(lang)
	}
	return r
}

func TestQuality(t *testing.T) {
	Convey("Given repo collections", t, func() {
		Convey("Quality applies logarithmic damping to stars and forks", func() {
			repos := []model.RepoScoreData{repoWith(99, 9, "Go", 10)}
			// log10(100)*10 + log10(10)*5 = 25
			So(factors.Quality(repos), ShouldAlmostEqual, 25, 1e-9)
		})

		Convey("Quality is clamped at 100", func() {
			repos := []model.RepoScoreData{repoWith(10_000_000_000, 10_000_000_000, "Go", 10)}
			So(factors.Quality(repos), ShouldEqual, 100)
		})

		Convey("Empty input scores zero", func() {
			So(factors.Quality(nil), ShouldEqual, 0)
		})
	})
}

func TestActivity(t *testing.T) {
	Convey("Given repo collections", t, func() {
		Convey("A repo updated right now scores the full 100", func() {
			repos := []model.RepoScoreData{repoWith(0, 0, "Go", 0)}
			So(factors.Activity(repos, testNow), ShouldAlmostEqual, 100, 1e-9)
		})

		Convey("Stale repos contribute neither ratio nor freshness", func() {
			repos := []model.RepoScoreData{repoWith(0, 0, "Go", 400)}
			So(factors.Activity(repos, testNow), ShouldEqual, 0)
		})

		Convey("Half-active collections split the ratio term", func() {
			repos := []model.RepoScoreData{
				repoWith(0, 0, "Go", 0),
				repoWith(0, 0, "Go", 400),
			}
			// ratio 0.5*50 = 25, freshness averaged over the one active repo = 50
			So(factors.Activity(repos, testNow), ShouldAlmostEqual, 75, 1e-9)
		})

		Convey("Empty input scores zero", func() {
			So(factors.Activity(nil, testNow), ShouldEqual, 0)
		})
	})
}

func TestDiversity(t *testing.T) {
	Convey("Given repo collections", t, func() {
		Convey("Distinct languages are counted case-insensitively", func() {
			repos := []model.RepoScoreData{
				repoWith(0, 0, "Go", 0),
				repoWith(0, 0, "go", 0),
				repoWith(0, 0, "Python", 0),
			}
			So(factors.Diversity(repos), ShouldEqual, 20)
		})

		Convey("Repos without a language are skipped", func() {
			repos := []model.RepoScoreData{repoWith(0, 0, "", 0)}
			So(factors.Diversity(repos), ShouldEqual, 0)
		})

		Convey("Eleven languages clamp at 100", func() {
			langs := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
			repos := make([]model.RepoScoreData, len(langs))
			for i, l := range langs {
				repos[i] = repoWith(0, 0, l, 0)
			}
			So(factors.Diversity(repos), ShouldEqual, 100)
		})

		Convey("Empty input scores zero", func() {
			So(factors.Diversity(nil), ShouldEqual, 0)
		})
	})
}

func TestRepoCountAndAIRatio(t *testing.T) {
	Convey("Given scalar inputs", t, func() {
		Convey("RepoCount damps logarithmically", func() {
			// log10(10)*25 = 25
			So(factors.RepoCount(9), ShouldAlmostEqual, 25, 1e-9)
			So(factors.RepoCount(0), ShouldEqual, 0)
		})

		Convey("AIRatio combines share and absolute count", func() {
			// sqrt(1)*50 + 1*5 = 55
			So(factors.AIRatio(1, 1), ShouldAlmostEqual, 55, 1e-9)
			// sqrt(0.25)*50 + 1*5 = 30
			So(factors.AIRatio(1, 4), ShouldAlmostEqual, 30, 1e-9)
		})

		Convey("AIRatio clamps at 100", func() {
			So(factors.AIRatio(20, 20), ShouldEqual, 100)
		})

		Convey("AIRatio of an empty collection is zero", func() {
			So(factors.AIRatio(0, 0), ShouldEqual, 0)
		})
	})
}

func TestOriginality(t *testing.T) {
	Convey("Given repo collections", t, func() {
		Convey("Unforked or star-dominant repos count as original", func() {
			repos := []model.RepoScoreData{
				repoWith(0, 0, "Go", 0),  // never forked
				repoWith(10, 2, "Go", 0), // stars > forks
				repoWith(1, 5, "Go", 0),  // derivative
				repoWith(0, 1, "Go", 0),  // derivative
			}
			So(factors.Originality(repos), ShouldEqual, 50)
		})

		Convey("Empty input scores zero", func() {
			So(factors.Originality(nil), ShouldEqual, 0)
		})
	})
}

func TestTimeDecayAndClamp(t *testing.T) {
	Convey("Given the decay and clamp helpers", t, func() {
		Convey("TimeDecay is 1 at zero days and decreasing", func() {
			So(factors.TimeDecay(0), ShouldEqual, 1)
			So(factors.TimeDecay(30), ShouldBeLessThan, factors.TimeDecay(15))
			So(factors.TimeDecay(-5), ShouldEqual, 1)
		})

		Convey("Clamp bounds values into the range", func() {
			So(factors.Clamp(-3, 0, 100), ShouldEqual, 0)
			So(factors.Clamp(42, 0, 100), ShouldEqual, 42)
			So(factors.Clamp(250, 0, 100), ShouldEqual, 100)
		})
	})
}

func TestLanguageDistribution(t *testing.T) {
	Convey("Given repo collections", t, func() {
		repos := []model.RepoScoreData{
			repoWith(0, 0, "Go", 0),
			repoWith(0, 0, "Go", 0),
			repoWith(0, 0, "Python", 0),
			repoWith(0, 0, "Rust", 0),
			repoWith(0, 0, "", 0),
		}

		Convey("LanguageDistribution counts repos per language", func() {
			dist := factors.LanguageDistribution(repos)
			So(dist, ShouldResemble, model.LanguageDistribution{"Go": 2, "Python": 1, "Rust": 1})
		})

		Convey("TopLanguages sorts by count, ties alphabetically", func() {
			dist := factors.LanguageDistribution(repos)
			So(factors.TopLanguages(dist, 3), ShouldResemble, []string{"Go", "Python", "Rust"})
			So(factors.TopLanguages(dist, 1), ShouldResemble, []string{"Go"})
		})

		Convey("TopLanguages handles empty and zero-n input", func() {
			So(factors.TopLanguages(nil, 3), ShouldBeNil)
			So(factors.TopLanguages(model.LanguageDistribution{"Go": 1}, 0), ShouldBeNil)
		})
	})
}

func TestFactorBounds(t *testing.T) {
	Convey("All factors stay within [0,100] for a dense collection", t, func() {
		repos := make([]model.RepoScoreData, 50)
		for i := range repos {
			repos[i] = repoWith(i*100, i*10, "Go", i*20)
		}
		now := testNow

		So(factors.Quality(repos), ShouldBeBetweenOrEqual, 0, 100)
		So(factors.Activity(repos, now), ShouldBeBetweenOrEqual, 0, 100)
		So(factors.Diversity(repos), ShouldBeBetweenOrEqual, 0, 100)
		So(factors.RepoCount(len(repos)), ShouldBeBetweenOrEqual, 0, 100)
		So(factors.AIRatio(25, 50), ShouldBeBetweenOrEqual, 0, 100)
		So(factors.Originality(repos), ShouldBeBetweenOrEqual, 0, 100)
	})
}
