package tintin

import "errors"

var (
	ErrUnusable              = errors.New("camera is unusable after a failed initialization")
	ErrBackendNotInitialized = errors.New("backend not initialized")
	ErrWrongBackend          = errors.New("operation not supported by this backend")
	ErrMissingPeer           = errors.New("peer parameter not registered")
	ErrNotStarted            = errors.New("camera not started")
)
