package monitor

import "errors"

var (
	ErrNotInitialized  = errors.New("monitor not initialized")
	ErrIndexOutOfRange = errors.New("indicator index out of range")
	ErrInvalidColor    = errors.New("invalid indicator color")
)
