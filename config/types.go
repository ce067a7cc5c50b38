package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Films   FilmsConfig   `mapstructure:"films"`
	Logging LoggingConfig `mapstructure:"logging"`
	Update  UpdateConfig  `mapstructure:"update"`
}

// APIConfig holds catalog API connection details
type APIConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// SessionConfig controls where the bearer token is kept
type SessionConfig struct {
	// Persist stores the token on disk; when false it lives only for one command
	Persist bool   `mapstructure:"persist"`
	Path    string `mapstructure:"path"`
}

// FilmsConfig contains listing defaults and named filter presets
type FilmsConfig struct {
	PageSize int               `mapstructure:"page_size"`
	Presets  map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Color is nil when unset so the terminal can decide
	Color *bool `mapstructure:"color"`
}

// UpdateConfig names the GitHub repository releases are published to
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
