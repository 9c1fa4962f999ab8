package worker

import (
	"github.com/okian/chargegauge/pkg/logger"
)

// Option configures a TickWorker.
type Option func(*TickWorker)

// WithName names the loop in its log lines. Empty keeps "tick-worker".
func WithName(name string) Option {
	return func(w *TickWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger replaces the default "worker" logger.
func WithLogger(l logger.Logger) Option {
	return func(w *TickWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
