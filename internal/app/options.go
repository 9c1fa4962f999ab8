package service

import (
	"github.com/okian/chargegauge/internal/domain/gauge"
	"github.com/okian/chargegauge/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum number of queued frames.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many recent frame ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithInitialJob selects the job built on Start.
func WithInitialJob(id string) Option {
	return func(s *Service) {
		s.initialJob = id
	}
}

// WithBoardWidth sets the bar width used by Board.
func WithBoardWidth(width int) Option {
	return func(s *Service) {
		if width > 0 {
			s.boardWidth = width
		}
	}
}

// WithFullNotifier chains a receiver after the built-in full notification
// logging, e.g. a sound player.
func WithFullNotifier(n gauge.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.downstream = n
		}
	}
}

// WithSurfaceFactory overrides how gauge surfaces are built.
func WithSurfaceFactory(f gauge.SurfaceFactory) Option {
	return func(s *Service) {
		if f != nil {
			s.factory = f
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// ManagerOption applies a configuration option to the Manager.
type ManagerOption func(*Manager)

// WithPreferences sets the store gauges load overrides from and save edits to.
func WithPreferences(store gauge.PreferenceStore) ManagerOption {
	return func(m *Manager) {
		if store != nil {
			m.store = store
		}
	}
}

// WithManagerSurfaces overrides the surface factory.
func WithManagerSurfaces(f gauge.SurfaceFactory) ManagerOption {
	return func(m *Manager) {
		if f != nil {
			m.factory = f
		}
	}
}

// WithNotifier sets the receiver of full notifications.
func WithNotifier(n gauge.Notifier) ManagerOption {
	return func(m *Manager) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithManagerLogger sets a custom logger for the manager.
func WithManagerLogger(l logger.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}
