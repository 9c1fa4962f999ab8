package config

import "errors"

// Errors returned by Load and Validate.
var (
	ErrInvalidConfig = errors.New("invalid daemon configuration")
	ErrLoadConfig    = errors.New("load daemon configuration")
)
