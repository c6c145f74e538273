package repository

import "errors"

// Sentinel kinds for schedule store errors.
var (
	ErrNotFound       = errors.New("schedule record not found")
	ErrMissingEventID = errors.New("schedule record missing event id")
)
