package app

import "errors"

// Config holds everything an App instance needs to run one profiling
// session.
type Config struct {
	// GridPath points at a .hcl graph definition file or a directory
	// of them.
	GridPath string

	// Runs and Workers override the profile block when non-zero.
	Runs    int
	Workers int

	LogFormat string
	LogLevel  string

	// StatsOut, when set, is the file path the JSON stats export is
	// written to after the last run.
	StatsOut string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	if cfg.Runs != 0 && cfg.Runs < 2 {
		return nil, errors.New("runs must be at least 2: the first run is the warm-up and is never measured")
	}
	if cfg.Workers < 0 {
		return nil, errors.New("workers must not be negative")
	}
	return &cfg, nil
}
