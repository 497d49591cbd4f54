package statestore

import "errors"

// Sentinel kinds for state persistence errors.
var (
	ErrMalformedState = errors.New("malformed state file")
	ErrSaveState      = errors.New("save state failed")
)
