// Package config loads service configuration from struct defaults,
// FIN_-prefixed environment variables and an optional YAML file. File values
// override environment values, matching the deployment convention that a
// mounted config file is the most specific source.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces the environment variables, e.g. FIN_SERVER_PORT.
const envPrefix = "FIN"

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Store    StoreConfig    `yaml:"store" envconfig:"STORE"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST" default:"0.0.0.0"`
	Port            int           `yaml:"port" envconfig:"PORT" default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"120s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig configures CORS, rate limiting and upload limits.
type SecurityConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"*"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"25"`
	RateLimitBurst int      `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes" envconfig:"MAX_BODY_BYTES" default:"5242880"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/finsight.log"`
}

// StoreConfig configures the session store.
type StoreConfig struct {
	SessionTTL    time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL" default:"2h"`
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"SWEEP_INTERVAL" default:"5m"`
}

// Load builds the configuration. A non-empty path points at a YAML file
// whose values override the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("loading config from env: %w", err)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		// Only keys present in the file overwrite the struct.
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive")
	}
	if c.Security.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	if c.Store.SessionTTL < 0 {
		return fmt.Errorf("session ttl must not be negative")
	}
	return nil
}
