// Package config defines tool configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers an optional YAML file and environment variables on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Default values applied by New.
const (
	defaultRounds    = 3
	defaultKFactor   = 32.0
	defaultMaxEdge   = 800
	defaultStateFile = "ranking_table.json"
	defaultReport    = "ranked.txt"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Rounds is the number of passes through the photo set.
	Rounds int `koanf:"rounds"`

	// KFactor caps how many points a single match-up can move.
	KFactor float64 `koanf:"k_factor"`

	// StateFile is the rating-state JSON file, relative to the photo dir.
	StateFile string `koanf:"state_file"`

	// ReportFile is the ranked report text file, relative to the photo dir.
	ReportFile string `koanf:"report_file"`

	// MaxEdge bounds the long edge of a loaded photo, in pixels.
	MaxEdge int `koanf:"max_edge"`

	// MetricsAddr exposes Prometheus metrics while ranking runs,
	// e.g. ":9090". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		Rounds:     defaultRounds,
		KFactor:    defaultKFactor,
		StateFile:  defaultStateFile,
		ReportFile: defaultReport,
		MaxEdge:    defaultMaxEdge,
	}
}
