package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidDefinition = errors.New("invalid gauge definition")
	ErrUnknownVisualType = errors.New("unknown visual type")
	ErrUnknownColor      = errors.New("unknown color")
)

// ConfigurationError reports a gauge definition that cannot be constructed.
// Part is -1 when the problem is not specific to one part.
type ConfigurationError struct {
	Gauge  string
	Part   int
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Part < 0 {
		return fmt.Sprintf("gauge %q: %s", e.Gauge, e.Reason)
	}
	return fmt.Sprintf("gauge %q part %d: %s", e.Gauge, e.Part, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidDefinition).
func (e *ConfigurationError) Unwrap() error { return ErrInvalidDefinition }
