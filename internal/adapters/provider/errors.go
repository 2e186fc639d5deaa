package provider

import "errors"

// Sentinel kinds for provider errors.
var (
	ErrDecode            = errors.New("decode events document")
	ErrUnsupportedFormat = errors.New("unsupported events document format")
)
