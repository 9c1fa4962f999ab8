package gauge

// Option applies a configuration option to the Gauge.
type Option func(*Gauge)

// WithSurfaceFactory sets how display surfaces are built.
func WithSurfaceFactory(f SurfaceFactory) Option {
	return func(g *Gauge) {
		if f != nil {
			g.factory = f
		}
	}
}

// WithPreferenceStore sets the configuration store read at construction and
// written after option edits.
func WithPreferenceStore(s PreferenceStore) Option {
	return func(g *Gauge) {
		if s != nil {
			g.store = s
		}
	}
}

// WithNotifier sets the receiver of the full signal.
func WithNotifier(n Notifier) Option {
	return func(g *Gauge) {
		if n != nil {
			g.notifier = n
		}
	}
}
