package jobs

import "errors"

// Sentinel kinds for job table errors.
var (
	ErrUnknownJob = errors.New("unknown job")
	ErrParse      = errors.New("job table parse failed")
)
