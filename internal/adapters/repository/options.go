package repository

import "time"

// Option applies a configuration option to a preference store.
type Option func(*settings)

type settings struct {
	now         func() time.Time
	busyTimeout time.Duration
}

func defaultSettings() settings {
	return settings{
		now:         time.Now,
		busyTimeout: 5 * time.Second,
	}
}

// WithClock overrides the clock used to stamp UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}
