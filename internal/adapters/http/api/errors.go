package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadPage     = errors.New("page must be a positive integer")
	ErrBadLimit    = errors.New("limit must be a positive integer")
	ErrBadPath     = errors.New("bad path")
	ErrBadPayload  = errors.New("bad payload")
	ErrEmptyUserID = errors.New("empty user id")
)
