package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrStatsNotFound  = errors.New("user stats not found")
	ErrNoRepositories = errors.New("no repositories found")
	ErrMissingUserID  = errors.New("missing user id")
)
