package gauge

import "errors"

// Sentinel error kinds for gauge option edits.
var (
	ErrUnsupportedVisualType = errors.New("unsupported visual type")
	ErrInvalidColor          = errors.New("invalid bar color")
	ErrPersist               = errors.New("persist gauge preferences failed")
)
