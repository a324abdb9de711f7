package engine

import "errors"

// Sentinel kinds for engine errors.
var (
	ErrAlgorithmNotFound = errors.New("algorithm not found")
)
