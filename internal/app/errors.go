package service

import "errors"

// Sentinel kinds for import failures. They are logged, never returned by
// ImportEvents.
var (
	ErrMalformedDocument = errors.New("malformed events document")
	ErrMissingEvents     = errors.New("document has no events field")
	ErrEventsNotSequence = errors.New("events field is not a sequence")
)
