package core

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files can spell durations the
// Go way ("30s", "5m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string: %w", ErrInvalidConfiguration)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, ErrInvalidConfiguration)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config holds the configuration for a console view host. It supports
// three-layer priority:
//  1. Default values (lowest priority)
//  2. Environment variables (medium priority)
//  3. Functional options (highest priority)
//
// Example usage:
//
//	cfg, err := NewConfig(
//	    WithName("console"),
//	    WithRedisURL("redis://localhost:6379"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
type Config struct {
	// Name identifies this console host in logs and snapshot records.
	Name string `yaml:"name"`

	// Namespace isolates snapshot keys between deployments sharing Redis.
	Namespace string `yaml:"namespace"`

	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SnapshotConfig controls descriptor snapshot publishing to Redis.
// Disabled by default; single-node consoles have no use for it.
type SnapshotConfig struct {
	Enabled  bool     `yaml:"enabled"`
	RedisURL string   `yaml:"redis_url"`
	TTL      Duration `yaml:"ttl"`
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// TelemetryConfig controls OpenTelemetry instrumentation of the
// registries. When disabled, no-op telemetry is used.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Option is a functional option for configuring the host.
// Options are applied in order and can return an error if the
// configuration is invalid.
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:      "viewkit-console",
		Namespace: DefaultSnapshotNamespace,
		Snapshot: SnapshotConfig{
			Enabled: false,
			TTL:     Duration(DefaultSnapshotTTL),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "viewkit",
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables take precedence over defaults but are
// overridden by functional options.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(EnvName); v != "" {
		c.Name = v
	}
	if v := os.Getenv(EnvNamespace); v != "" {
		c.Namespace = v
	}
	if v := os.Getenv(EnvSnapshotEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSnapshotEnabled, v, ErrInvalidConfiguration)
		}
		c.Snapshot.Enabled = enabled
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Snapshot.RedisURL = v
	} else if v := os.Getenv(EnvRedisURLFallback); v != "" {
		c.Snapshot.RedisURL = v
	}
	if v := os.Getenv(EnvSnapshotTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSnapshotTTL, v, ErrInvalidConfiguration)
		}
		c.Snapshot.TTL = Duration(ttl)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvTelemetryEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvTelemetryEnabled, v, ErrInvalidConfiguration)
		}
		c.Telemetry.Enabled = enabled
	}
	if v := os.Getenv(EnvTelemetryService); v != "" {
		c.Telemetry.ServiceName = v
	}
	return nil
}

// LoadFromFile merges a YAML config file into c. Fields absent from the
// file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name: %w", ErrMissingConfiguration)
	}
	if c.Namespace == "" {
		return fmt.Errorf("namespace: %w", ErrMissingConfiguration)
	}
	if c.Snapshot.Enabled {
		if c.Snapshot.RedisURL == "" {
			return fmt.Errorf("snapshot.redis_url: %w", ErrMissingConfiguration)
		}
		if c.Snapshot.TTL <= 0 {
			return fmt.Errorf("snapshot.ttl must be positive: %w", ErrInvalidConfiguration)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q: %w", c.Logging.Level, ErrInvalidConfiguration)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q: %w", c.Logging.Format, ErrInvalidConfiguration)
	}
	return nil
}

// NewConfig builds a configuration from defaults, the environment, and
// the given options, then validates it.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithName sets the console host name.
func WithName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return fmt.Errorf("name must not be empty: %w", ErrInvalidConfiguration)
		}
		c.Name = name
		return nil
	}
}

// WithNamespace sets the snapshot key namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) error {
		if namespace == "" {
			return fmt.Errorf("namespace must not be empty: %w", ErrInvalidConfiguration)
		}
		c.Namespace = namespace
		return nil
	}
}

// WithRedisURL enables snapshot publishing against the given Redis.
func WithRedisURL(url string) Option {
	return func(c *Config) error {
		c.Snapshot.Enabled = true
		c.Snapshot.RedisURL = url
		return nil
	}
}

// WithSnapshotTTL sets the snapshot record TTL.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(c *Config) error {
		if ttl <= 0 {
			return fmt.Errorf("snapshot ttl must be positive: %w", ErrInvalidConfiguration)
		}
		c.Snapshot.TTL = Duration(ttl)
		return nil
	}
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) Option {
	return func(c *Config) error {
		c.Logging.Level = level
		return nil
	}
}

// WithLogFormat sets the log encoding.
func WithLogFormat(format string) Option {
	return func(c *Config) error {
		c.Logging.Format = format
		return nil
	}
}

// WithTelemetry enables OpenTelemetry instrumentation under the given
// service name.
func WithTelemetry(serviceName string) Option {
	return func(c *Config) error {
		if serviceName == "" {
			return fmt.Errorf("telemetry service name must not be empty: %w", ErrInvalidConfiguration)
		}
		c.Telemetry.Enabled = true
		c.Telemetry.ServiceName = serviceName
		return nil
	}
}

// WithConfigFile merges a YAML file into the configuration at the point
// the option is applied.
func WithConfigFile(path string) Option {
	return func(c *Config) error {
		return c.LoadFromFile(path)
	}
}
