package site

import "errors"

// ErrTemplate reports a page template that could not be prepared.
var ErrTemplate = errors.New("page template failed")
