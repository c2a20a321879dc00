// Package config loads client settings from defaults, an optional YAML
// file and OCTOLEARN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/octolearn/internal/logging"
)

// Default values for Config.
const (
	DefaultAPIBase            = "http://localhost:8000"
	DefaultRequestTimeout     = 60 * time.Second
	DefaultRetryAttempts      = 1
	DefaultTypewriterInterval = 40 * time.Millisecond
	DefaultLogLevel           = "info"
	DefaultServerAddr         = ":8000"
)

// Config holds the client and backend settings.
type Config struct {
	// APIBase is the origin of the generation service.
	APIBase string `yaml:"api_base"`

	// RequestTimeout bounds a single remote call. Zero disables the limit.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// RetryAttempts is the total number of tries per call; 1 means no retry.
	RetryAttempts int `yaml:"retry_attempts"`

	TypewriterInterval time.Duration `yaml:"typewriter_interval"`

	// DBPath overrides the local store location. Empty uses the default.
	DBPath string `yaml:"db_path"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures `octolearn serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		APIBase:            DefaultAPIBase,
		RequestTimeout:     DefaultRequestTimeout,
		RetryAttempts:      DefaultRetryAttempts,
		TypewriterInterval: DefaultTypewriterInterval,
		LogFile:            DefaultLogPath(),
		LogLevel:           DefaultLogLevel,
		Server:             ServerConfig{Addr: DefaultServerAddr},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// DefaultPath returns $XDG_CONFIG_HOME/octolearn/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "octolearn", "config.yaml")
}

// DefaultLogPath returns $XDG_STATE_HOME/octolearn/octolearn.log, falling
// back to ~/.local/state.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "octolearn", "octolearn.log")
}

// Load reads the config file at path, then applies environment overrides
// and validates the result. An empty path reads DefaultPath, which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("OCTOLEARN_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("OCTOLEARN_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return ValidationError{Field: "OCTOLEARN_REQUEST_TIMEOUT", Message: err.Error()}
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("OCTOLEARN_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ValidationError{Field: "OCTOLEARN_RETRY_ATTEMPTS", Message: "must be an integer"}
		}
		cfg.RetryAttempts = n
	}
	if v := os.Getenv("OCTOLEARN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("OCTOLEARN_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("OCTOLEARN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("OCTOLEARN_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return nil
}

// Validate checks that all config values are usable.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.APIBase)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{Field: "api_base", Message: "must be an absolute http(s) URL"}
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")

	if cfg.RequestTimeout < 0 {
		return ValidationError{Field: "request_timeout", Message: "must not be negative"}
	}
	if cfg.RetryAttempts < 1 {
		return ValidationError{Field: "retry_attempts", Message: "must be at least 1"}
	}
	if cfg.TypewriterInterval <= 0 {
		return ValidationError{Field: "typewriter_interval", Message: "must be positive"}
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return ValidationError{Field: "log_level", Message: "must be one of debug, info, warn, error"}
	}
	if cfg.Server.Addr == "" {
		return ValidationError{Field: "server.addr", Message: "must not be empty"}
	}
	return nil
}

// LogOptions returns logging options for the configured file and level.
func (c Config) LogOptions() logging.Options {
	return logging.Options{Level: c.LogLevel, Path: c.LogFile}
}
