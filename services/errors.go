package services

import "errors"

// Error kinds services wrap with %w so handlers can map them to HTTP codes.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
