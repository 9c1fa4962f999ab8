package telemetry

import "errors"

// Sentinel kinds for timeline errors.
var (
	ErrOutOfOrder     = errors.New("event before the previous event for this key")
	ErrUnknownAbility = errors.New("ability not registered")
	ErrNoCharge       = errors.New("no charge available")
	ErrNotActive      = errors.New("effect not active")
	ErrInvalidEvent   = errors.New("invalid timeline event")
	ErrParse          = errors.New("parse script")
)
