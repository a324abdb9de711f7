// Package engine dispatches score computations to versioned algorithms.
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/devrank/devrank/internal/domain/scoring"
	"github.com/devrank/devrank/pkg/logger"
)

// Result is the tagged outcome of one user's batch computation. A zero score
// with a nil Err means "computed as zero"; Err set means the computation
// failed. The two are never conflated.
type Result struct {
	Score float64
	Err   error
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCalculator registers an algorithm at construction time.
func WithCalculator(calc scoring.Calculator) Option {
	return func(e *Engine) {
		if calc != nil {
			e.calculators[calc.Version()] = calc
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine is a registry of algorithm versions. The registry is populated at
// construction and read-only afterwards, making it safe for concurrent
// readers without locking.
type Engine struct {
	calculators map[string]scoring.Calculator
	logger      logger.Logger
}

// New creates an Engine. Callers register at least one algorithm via
// WithCalculator or Register before serving traffic.
func New(opts ...Option) *Engine {
	e := &Engine{
		calculators: make(map[string]scoring.Calculator),
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds an algorithm to the registry. It must only be called during
// process startup, before the engine is shared across goroutines.
func (e *Engine) Register(calc scoring.Calculator) {
	if calc == nil {
		return
	}
	e.calculators[calc.Version()] = calc
}

// Versions returns the registered algorithm versions, sorted.
func (e *Engine) Versions() []string {
	versions := make([]string, 0, len(e.calculators))
	for v := range e.calculators {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Calculate computes a score with the given algorithm version.
func (e *Engine) Calculate(ctx context.Context, in scoring.Input, version string) (float64, error) {
	calc, ok := e.calculators[version]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrAlgorithmNotFound, version)
	}
	return calc.Calculate(ctx, in)
}

// CalculateBatch computes scores for many users with one algorithm version.
// An unknown version fails the whole call; per-user failures are isolated in
// the returned Result values.
func (e *Engine) CalculateBatch(ctx context.Context, inputs map[string]scoring.Input, version string) (map[string]Result, error) {
	calc, ok := e.calculators[version]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAlgorithmNotFound, version)
	}

	results := make(map[string]Result, len(inputs))
	for userID, in := range inputs {
		score, err := calc.Calculate(ctx, in)
		if err != nil {
			e.logger.Warn(ctx, "score computation failed",
				logger.String("userID", userID),
				logger.String("version", version),
				logger.Error(err),
			)
			results[userID] = Result{Err: err}
			continue
		}
		results[userID] = Result{Score: score}
	}
	return results, nil
}
