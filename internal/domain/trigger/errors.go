package trigger

import "errors"

// Sentinel error kinds for trigger identities.
var (
	ErrInvalidID = errors.New("invalid trigger id")
)
