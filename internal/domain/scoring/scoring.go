// Package scoring defines the contract for versioned score algorithms.
package scoring

import (
	"context"

	"github.com/devrank/devrank/internal/domain/model"
)

// Input carries everything an algorithm needs to score one user.
type Input struct {
	Stats model.UserStats
	Repos []model.RepoScoreData
}

// Calculator computes a composite developer score. Implementations must be
// pure given a fixed clock; the context exists for versions that need
// external lookups.
type Calculator interface {
	// Version returns the immutable algorithm version tag, e.g. "V1".
	Version() string

	// Calculate computes the score for one user. Empty repo collections
	// degrade to a zero score, never an error.
	Calculate(ctx context.Context, in Input) (float64, error)
}
