package qart

import "errors"

// Common errors
var (
	ErrNotFound = errors.New("report not found")
)
