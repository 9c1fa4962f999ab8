package repository

import "errors"

// Sentinel kinds for preference store errors.
var (
	ErrNotFound     = errors.New("gauge preferences not found")
	ErrInvalidGauge = errors.New("invalid gauge name")
	ErrClosed       = errors.New("preference store closed")
)
