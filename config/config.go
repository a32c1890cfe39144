package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/restbind/endpoint"
	"github.com/s0up4200/restbind/request"
)

// EnvPrefix prefixes environment overrides, e.g. RESTBIND_CONNECTION_HOST
const EnvPrefix = "RESTBIND"

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("restbind")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check user config directory
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "restbind"))
		}

		// Check /etc
		v.AddConfigPath("/etc/restbind/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Connection defaults
	v.SetDefault("connection.scheme", "https")
	v.SetDefault("connection.json", true)
	v.SetDefault("connection.timeout", "30s")
	v.SetDefault("connection.user_agent", "restbind")
	v.SetDefault("connection.query.sequence", "repeat")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Connection.Host == "" {
		return fmt.Errorf("connection.host is required")
	}

	validSchemes := map[string]bool{
		"http":  true,
		"https": true,
	}
	if !validSchemes[cfg.Connection.Scheme] {
		return fmt.Errorf("invalid connection.scheme: %s (must be 'http' or 'https')", cfg.Connection.Scheme)
	}

	if cfg.Connection.Timeout < 0 {
		return fmt.Errorf("invalid connection.timeout: %s", cfg.Connection.Timeout)
	}

	validSequences := map[string]bool{
		"":       true,
		"repeat": true,
		"comma":  true,
	}
	if !validSequences[cfg.Connection.Query.Sequence] {
		return fmt.Errorf("invalid connection.query.sequence: %s (must be 'repeat' or 'comma')", cfg.Connection.Query.Sequence)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	for name, ep := range cfg.Endpoints {
		if err := validateEndpoint("endpoints."+name, ep); err != nil {
			return err
		}
	}

	for name, g := range cfg.Groups {
		for _, action := range g.Actions {
			if !slices.Contains(standardActions, action) {
				return fmt.Errorf("groups.%s: unknown action %q (must be one of %s)", name, action, strings.Join(standardActions, ", "))
			}
		}
		for custom, ep := range g.Custom {
			if slices.Contains(g.Actions, custom) {
				return fmt.Errorf("groups.%s.custom.%s: shadows a standard action", name, custom)
			}
			if err := validateEndpoint("groups."+name+".custom."+custom, ep); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateEndpoint(key string, ep EndpointConfig) error {
	if _, err := request.ParseMethod(ep.Method); err != nil {
		return fmt.Errorf("%s.method: %w", key, err)
	}
	for i, q := range ep.Query {
		if q.Key == "" {
			return fmt.Errorf("%s.query[%d]: key is required", key, i)
		}
	}
	return nil
}

// standardActions are the action names a group may list
var standardActions = []string{
	endpoint.ActionList,
	endpoint.ActionCreate,
	endpoint.ActionRetrieve,
	endpoint.ActionUpdate,
	endpoint.ActionPartialUpdate,
	endpoint.ActionDestroy,
	endpoint.ActionHead,
}
