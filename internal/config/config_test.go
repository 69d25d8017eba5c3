package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/heritage-client/internal/heritage/client"
)

// clearEnv isolates a test from the caller's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfig, EnvBaseURL, EnvAPIKey, EnvPlan, EnvAttribution,
		EnvTimeoutMs, EnvLogLevel, EnvLogFile, EnvLogFormat, EnvExportDir,
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heritage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, client.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "public", cfg.Plan)
	assert.Equal(t, "visible", cfg.Attribution)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "heritage-export", cfg.Export.Dir)
	assert.Equal(t, 100, cfg.Export.PageSize)
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
base_url: https://staging.heritage.example/v1
plan: commercial
attribution: suppressed
api_key: file-key
timeout: 15s
headers:
  X-Tenant: museum
log:
  level: debug
  format: json
  file: /tmp/heritage.log
export:
  dir: ./mirror
  collection: maritime
  types: [monument, site]
  page_size: 250
  include_citations: true
  citation_style: apa
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.heritage.example/v1", cfg.BaseURL)
	assert.Equal(t, "commercial", cfg.Plan)
	assert.Equal(t, "suppressed", cfg.Attribution)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, map[string]string{"X-Tenant": "museum"}, cfg.Headers)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/heritage.log", cfg.Log.FilePath)
	// Unset log fields keep their defaults
	assert.Equal(t, 3, cfg.Log.MaxBackups)

	assert.Equal(t, "./mirror", cfg.Export.Dir)
	assert.Equal(t, "maritime", cfg.Export.Collection)
	assert.Equal(t, []string{"monument", "site"}, cfg.Export.Types)
	assert.Equal(t, 250, cfg.Export.PageSize)
	assert.True(t, cfg.Export.IncludeCitations)
	assert.Equal(t, "apa", cfg.Export.CitationStyle)
	assert.Equal(t, 4, cfg.Export.Concurrency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "api_key: file-key\nplan: public\n")
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvPlan, "commercial")
	t.Setenv(EnvBaseURL, "http://localhost:8080")
	t.Setenv(EnvTimeoutMs, "2500")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvExportDir, "/var/heritage")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "commercial", cfg.Plan)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "/var/heritage", cfg.Export.Dir)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "base_url: https://env-file.heritage.example\n")
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://env-file.heritage.example", cfg.BaseURL)
}

func TestLoad_InvalidTimeoutEnvIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeoutMs, "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "base_url: [unterminated\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestConfig_ClientConfig(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	cfg.Plan = "commercial"
	cfg.Attribution = "suppressed"
	cfg.APIKey = "k"
	cfg.Headers = map[string]string{"X-Tenant": "museum"}

	logger := client.NewNoopLogger()
	cc := cfg.ClientConfig(logger)

	assert.Equal(t, client.PlanCommercial, cc.Plan)
	assert.Equal(t, client.AttributionSuppressed, cc.Attribution)
	assert.Equal(t, "k", cc.APIKey)
	assert.Equal(t, cfg.Timeout, cc.Timeout)
	assert.Equal(t, logger, cc.Logger)

	c, err := client.New(cc)
	require.NoError(t, err)
	assert.Equal(t, client.PlanCommercial, c.Plan())

	cfg.Plan = "public"
	_, err = client.New(cfg.ClientConfig(logger))
	assert.ErrorIs(t, err, client.ErrSuppressedAttribution)
}
