package model

import "errors"

// Sentinel kinds for board data errors.
var (
	ErrNotFound = errors.New("event not found")
)
