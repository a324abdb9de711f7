// Package batch runs per-user score computations through a bounded worker
// pool with per-user failure isolation.
package batch

import (
	"context"
	"sync"

	"github.com/devrank/devrank/pkg/logger"
)

const defaultWorkers = 4

// Outcome is the tagged result of one user's computation. Err set means the
// computation failed; a zero Score with nil Err means it computed as zero.
type Outcome struct {
	UserID string
	Score  float64
	Err    error
}

// Runner computes and persists the score for one user.
type Runner func(ctx context.Context, userID string) (float64, error)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers bounds the number of concurrent computations.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pool fans user IDs out to a fixed number of workers. One user's failure
// never aborts the others; the store's upsert atomicity keeps concurrent
// writes to distinct users safe.
type Pool struct {
	workers int
	logger  logger.Logger
}

// NewPool creates a Pool with a small default worker count.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		workers: defaultWorkers,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the runner for every user ID and returns outcomes in input
// order. It stops handing out new jobs once ctx is canceled; jobs not
// started are reported with ctx.Err().
func (p *Pool) Run(ctx context.Context, userIDs []string, run Runner) []Outcome {
	outcomes := make([]Outcome, len(userIDs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				userID := userIDs[i]
				score, err := run(ctx, userID)
				if err != nil {
					p.logger.Warn(ctx, "batch item failed",
						logger.String("userID", userID),
						logger.Error(err),
					)
				}
				outcomes[i] = Outcome{UserID: userID, Score: score, Err: err}
			}
		}()
	}

	for i := range userIDs {
		select {
		case <-ctx.Done():
			outcomes[i] = Outcome{UserID: userIDs[i], Err: ctx.Err()}
			continue
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}
