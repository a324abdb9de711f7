// Package config defines service configuration structures and loading.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env vars on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseDSN is the postgres connection string. Empty selects the
	// in-memory store.
	DatabaseDSN string `koanf:"database_dsn"`

	// DefaultVersion is the algorithm version used when requests omit one.
	DefaultVersion string `koanf:"default_version"`

	// DefaultPageSize and MaxPageSize bound GET /rankings?limit.
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`

	// BatchWorkers bounds batch recomputation concurrency.
	BatchWorkers int `koanf:"batch_workers"`

	// TopLanguages sets how many languages a ranking entry displays.
	TopLanguages int `koanf:"top_languages"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		DatabaseDSN:     "",
		DefaultVersion:  "V1",
		DefaultPageSize: 20,
		MaxPageSize:     100,
		BatchWorkers:    4,
		TopLanguages:    3,
	}
}
