package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	MaxInputBytes int64  `yaml:"max_input_bytes"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TracingConfig selects the OpenTelemetry exporter.
type TracingConfig struct {
	// Exporter is one of "none", "stdout" or "otlp".
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
	ServiceName string  `yaml:"service_name"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:    ":8080",
			MaxInputBytes: 1 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			Exporter:    "none",
			SampleRatio: 1.0,
			ServiceName: "hex2base64",
		},
	}
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HEX2BASE64_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("HEX2BASE64_MAX_INPUT_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("HEX2BASE64_MAX_INPUT_BYTES: %w", err)
		}
		c.Server.MaxInputBytes = n
	}
	if v := os.Getenv("HEX2BASE64_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HEX2BASE64_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("HEX2BASE64_METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HEX2BASE64_METRICS_ENABLED: %w", err)
		}
		c.Metrics.Enabled = b
	}
	if v := os.Getenv("HEX2BASE64_TRACING_EXPORTER"); v != "" {
		c.Tracing.Exporter = v
	}
	if v := os.Getenv("HEX2BASE64_TRACING_ENDPOINT"); v != "" {
		c.Tracing.Endpoint = v
	}
	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Server.MaxInputBytes <= 0 {
		return fmt.Errorf("server.max_input_bytes must be positive, got %d", c.Server.MaxInputBytes)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("unknown logging.level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging.format: %q", c.Logging.Format)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path)
	}

	switch c.Tracing.Exporter {
	case "none", "stdout":
	case "otlp":
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing.endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("unknown tracing.exporter: %q", c.Tracing.Exporter)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be within [0,1], got %v", c.Tracing.SampleRatio)
	}
	return nil
}
