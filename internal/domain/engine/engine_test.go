package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/devrank/devrank/internal/domain/engine"
	"github.com/devrank/devrank/internal/domain/model"
	"github.com/devrank/devrank/internal/domain/scoring"
)

var errBadUser = errors.New("bad user")

// flakyCalculator fails for one specific user id.
type flakyCalculator struct {
	failFor string
}

func (f *flakyCalculator) Version() string { return "flaky" }

func (f *flakyCalculator) Calculate(_ context.Context, in scoring.Input) (float64, error) {
	if in.Stats.UserID == f.failFor {
		return 0, errBadUser
	}
	return float64(in.Stats.TotalRepos), nil
}

func statsInput(userID string, totalRepos int) scoring.Input {
	return scoring.Input{Stats: model.UserStats{UserID: userID, TotalRepos: totalRepos}}
}

func TestEngine_Calculate(t *testing.T) {
	Convey("Given an engine seeded with V1", t, func() {
		clock := func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
		eng := engine.New(engine.WithCalculator(scoring.NewV1(scoring.WithClock(clock))))
		ctx := context.Background()

		Convey("It dispatches to the requested version", func() {
			score, err := eng.Calculate(ctx, statsInput("u1", 0), scoring.VersionV1)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 0)
		})

		Convey("An unregistered version fails with ErrAlgorithmNotFound", func() {
			_, err := eng.Calculate(ctx, statsInput("u1", 0), "V9")
			So(errors.Is(err, engine.ErrAlgorithmNotFound), ShouldBeTrue)
		})

		Convey("Versions lists registered algorithms sorted", func() {
			eng.Register(&flakyCalculator{})
			So(eng.Versions(), ShouldResemble, []string{scoring.VersionV1, "flaky"})
		})
	})
}

func TestEngine_CalculateBatch(t *testing.T) {
	Convey("Given an engine with a calculator that fails for one user", t, func() {
		eng := engine.New(engine.WithCalculator(&flakyCalculator{failFor: "u2"}))
		ctx := context.Background()

		inputs := map[string]scoring.Input{
			"u1": statsInput("u1", 3),
			"u2": statsInput("u2", 5),
			"u3": statsInput("u3", 7),
		}

		Convey("Per-user failures are isolated and tagged", func() {
			results, err := eng.CalculateBatch(ctx, inputs, "flaky")
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 3)
			So(results["u1"].Err, ShouldBeNil)
			So(results["u1"].Score, ShouldEqual, 3)
			So(errors.Is(results["u2"].Err, errBadUser), ShouldBeTrue)
			So(results["u3"].Err, ShouldBeNil)
			So(results["u3"].Score, ShouldEqual, 7)
		})

		Convey("A failed result is distinguishable from a computed zero", func() {
			inputs["u4"] = statsInput("u4", 0)
			results, err := eng.CalculateBatch(ctx, inputs, "flaky")
			So(err, ShouldBeNil)
			So(results["u4"].Score, ShouldEqual, 0)
			So(results["u4"].Err, ShouldBeNil)
			So(results["u2"].Err, ShouldNotBeNil)
		})

		Convey("An unknown version fails the whole batch", func() {
			_, err := eng.CalculateBatch(ctx, inputs, "V9")
			So(errors.Is(err, engine.ErrAlgorithmNotFound), ShouldBeTrue)
		})
	})
}
