package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Connection ConnectionConfig          `mapstructure:"connection"`
	Logging    LoggingConfig             `mapstructure:"logging"`
	Endpoints  map[string]EndpointConfig `mapstructure:"endpoints"`
	Groups     map[string]GroupConfig    `mapstructure:"groups"`
}

// ConnectionConfig holds the API connection defaults
type ConnectionConfig struct {
	Host          string            `mapstructure:"host"`
	Scheme        string            `mapstructure:"scheme"`
	PathPrefix    string            `mapstructure:"path_prefix"`
	TrailingSlash bool              `mapstructure:"trailing_slash"`
	JSON          bool              `mapstructure:"json"`
	Headers       map[string]string `mapstructure:"headers"`
	Query         QueryConfig       `mapstructure:"query"`
	Timeout       time.Duration     `mapstructure:"timeout"`
	UserAgent     string            `mapstructure:"user_agent"`
	Tracing       bool              `mapstructure:"tracing"`
}

// QueryConfig controls query string encoding
type QueryConfig struct {
	Sequence       string `mapstructure:"sequence"`
	SpaceAsPercent bool   `mapstructure:"space_as_percent"`
}

// EndpointConfig declares one endpoint
type EndpointConfig struct {
	Method string       `mapstructure:"method"`
	URL    string       `mapstructure:"url"`
	Args   []string     `mapstructure:"args"`
	Query  []QueryEntry `mapstructure:"query"`
}

// QueryEntry is one default query parameter. FromArg entries are filled
// from the argument of the same name.
type QueryEntry struct {
	Key     string `mapstructure:"key"`
	Value   string `mapstructure:"value"`
	FromArg bool   `mapstructure:"from_arg"`
}

// GroupConfig declares a group of CRUD actions under one url
type GroupConfig struct {
	URL        string                    `mapstructure:"url"`
	SharedArgs []string                  `mapstructure:"shared_args"`
	Actions    []string                  `mapstructure:"actions"`
	Custom     map[string]EndpointConfig `mapstructure:"custom"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
