package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidKey         = errors.New("invalid key")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotInitialized     = errors.New("not initialized")
	ErrClosed             = errors.New("closed")
	ErrTooLarge           = errors.New("too large")
)
