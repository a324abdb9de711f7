package batch_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/devrank/devrank/internal/adapters/batch"
)

var errBoom = errors.New("boom")

func TestPool_Run(t *testing.T) {
	Convey("Given a pool with two workers", t, func() {
		pool := batch.NewPool(batch.WithWorkers(2))
		ctx := context.Background()

		Convey("Outcomes come back in input order", func() {
			ids := []string{"u1", "u2", "u3", "u4", "u5"}
			outcomes := pool.Run(ctx, ids, func(_ context.Context, userID string) (float64, error) {
				n, _ := strconv.Atoi(userID[1:])
				return float64(n * 10), nil
			})

			So(outcomes, ShouldHaveLength, len(ids))
			for i, o := range outcomes {
				So(o.UserID, ShouldEqual, ids[i])
				So(o.Score, ShouldEqual, float64((i+1)*10))
				So(o.Err, ShouldBeNil)
			}
		})

		Convey("One failing job does not abort the others", func() {
			outcomes := pool.Run(ctx, []string{"u1", "u2", "u3"}, func(_ context.Context, userID string) (float64, error) {
				if userID == "u2" {
					return 0, errBoom
				}
				return 1, nil
			})

			So(outcomes[0].Err, ShouldBeNil)
			So(errors.Is(outcomes[1].Err, errBoom), ShouldBeTrue)
			So(outcomes[2].Err, ShouldBeNil)
		})

		Convey("Concurrency never exceeds the worker bound", func() {
			var mu sync.Mutex
			active, peak := 0, 0

			ids := make([]string, 20)
			for i := range ids {
				ids[i] = "u" + strconv.Itoa(i)
			}
			pool.Run(ctx, ids, func(_ context.Context, _ string) (float64, error) {
				mu.Lock()
				active++
				if active > peak {
					peak = active
				}
				mu.Unlock()
				defer func() {
					mu.Lock()
					active--
					mu.Unlock()
				}()
				return 0, nil
			})

			So(peak, ShouldBeLessThanOrEqualTo, 2)
		})

		Convey("An empty ID list runs nothing", func() {
			outcomes := pool.Run(ctx, nil, func(_ context.Context, _ string) (float64, error) {
				return 0, nil
			})
			So(outcomes, ShouldBeEmpty)
		})
	})

	Convey("Given a canceled context", t, func() {
		pool := batch.NewPool(batch.WithWorkers(1))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Jobs not handed out report the context error", func() {
			outcomes := pool.Run(ctx, []string{"u1", "u2"}, func(ctx context.Context, _ string) (float64, error) {
				return 0, ctx.Err()
			})

			So(outcomes, ShouldHaveLength, 2)
			for _, o := range outcomes {
				So(o.Err, ShouldNotBeNil)
			}
		})
	})
}
