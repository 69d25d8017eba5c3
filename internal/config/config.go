// Package config loads CLI configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/heritage-client/internal/heritage/client"
	"github.com/rshade/heritage-client/internal/heritage/exporter"
	"github.com/rshade/heritage-client/internal/logging"
)

// Environment variables that override file values.
const (
	EnvConfig      = "HERITAGE_CONFIG"
	EnvBaseURL     = "HERITAGE_BASE_URL"
	EnvAPIKey      = "HERITAGE_API_KEY"
	EnvPlan        = "HERITAGE_PLAN"
	EnvAttribution = "HERITAGE_ATTRIBUTION"
	EnvTimeoutMs   = "HERITAGE_TIMEOUT_MS"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFile     = "LOG_FILE"
	EnvLogFormat   = "LOG_FORMAT"
	EnvExportDir   = "HERITAGE_EXPORT_DIR"
)

// Config holds all configuration for the heritage CLI.
type Config struct {
	BaseURL     string            `yaml:"base_url"`
	Plan        string            `yaml:"plan"`
	Attribution string            `yaml:"attribution"`
	APIKey      string            `yaml:"api_key"`
	UserAgent   string            `yaml:"user_agent,omitempty"`
	Timeout     time.Duration     `yaml:"timeout"`
	Headers     map[string]string `yaml:"headers,omitempty"`

	Log    logging.Config `yaml:"log"`
	Export Export         `yaml:"export"`
}

// Export configures the sync command.
type Export struct {
	Dir             string `yaml:"dir"`
	exporter.Config `yaml:",inline"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	defaults := client.DefaultConfig()
	return &Config{
		BaseURL:     defaults.BaseURL,
		Plan:        string(defaults.Plan),
		Attribution: string(defaults.Attribution),
		Timeout:     defaults.Timeout,
		Log:         logging.DefaultConfig(),
		Export: Export{
			Dir: "heritage-export",
			Config: exporter.Config{
				PageSize:    100,
				Concurrency: exporter.DefaultConcurrency,
			},
		},
	}
}

// Load reads path (or $HERITAGE_CONFIG when path is empty) over the defaults
// and then applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BaseURL = getEnvString(EnvBaseURL, c.BaseURL)
	c.APIKey = getEnvString(EnvAPIKey, c.APIKey)
	c.Plan = getEnvString(EnvPlan, c.Plan)
	c.Attribution = getEnvString(EnvAttribution, c.Attribution)
	c.Timeout = getEnvDurationMs(EnvTimeoutMs, c.Timeout)

	c.Log.Level = getEnvString(EnvLogLevel, c.Log.Level)
	c.Log.FilePath = getEnvString(EnvLogFile, c.Log.FilePath)
	c.Log.Format = getEnvString(EnvLogFormat, c.Log.Format)

	c.Export.Dir = getEnvString(EnvExportDir, c.Export.Dir)
}

// ClientConfig maps the file settings onto a client configuration. The
// result is validated by client.New.
func (c *Config) ClientConfig(logger client.Logger) client.Config {
	return client.Config{
		BaseURL:     c.BaseURL,
		Attribution: client.Attribution(c.Attribution),
		Plan:        client.Plan(c.Plan),
		APIKey:      c.APIKey,
		UserAgent:   c.UserAgent,
		Headers:     c.Headers,
		Timeout:     c.Timeout,
		Logger:      logger,
	}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}
