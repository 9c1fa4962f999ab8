// Package config defines daemon configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config holding every default.
// - Load layers a YAML file and environment variables on top of New.
// - Errors returned by Load wrap this package's sentinels.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Job is the job whose gauges are built at startup. Empty starts idle.
	Job string `koanf:"job"`

	// JobsFile optionally points at a TOML file layered over the built-in job tables.
	JobsFile string `koanf:"jobs_file"`

	// PrefsDB is the SQLite file holding gauge preferences. Empty keeps them in memory.
	PrefsDB string `koanf:"prefs_db"`

	// FrameQueueSize bounds the in-memory telemetry frame queue.
	FrameQueueSize int `koanf:"frame_queue_size"`

	// DedupeSize is how many recent frame ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// BoardWidth is the bar width in cells for GET /board.
	BoardWidth int `koanf:"board_width"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		Job:            "",
		JobsFile:       "",
		PrefsDB:        "",
		FrameQueueSize: 1024,
		DedupeSize:     4096,
		BoardWidth:     20,
	}
}
