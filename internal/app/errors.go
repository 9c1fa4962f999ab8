package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrUnknownJob    = errors.New("unknown job")
	ErrNoJob         = errors.New("no job selected")
	ErrUnknownGauge  = errors.New("unknown gauge")
	ErrQueueFull     = errors.New("frame queue full")
	ErrInvalidOption = errors.New("invalid gauge option")
)
