package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "policy.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "refdata.json", cfg.Registry.Snapshot)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrent)
	assert.InDelta(t, 20, cfg.Batch.RatePerSecond, 0.001)
	assert.InDelta(t, 0.5, cfg.Mapping.MasterDataThreshold, 0.001)
	assert.InDelta(t, 0.6, cfg.Mapping.NameThreshold, 0.001)
	assert.InDelta(t, 0.7, cfg.Mapping.LowConfidenceThreshold, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/policy
log:
  level: debug
  format: console
server:
  port: 9090
batch:
  max_concurrent: 10
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Batch.MaxConcurrent)
	// Defaults still apply for unset values
	assert.InDelta(t, 0.7, cfg.Mapping.LowConfidenceThreshold, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chtemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("POLICY_STORE_DRIVER", "postgres")
	t.Setenv("POLICY_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chtemp(t)

	t.Setenv("POLICY_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Registry.Snapshot = "refdata.json"
	cfg.Mapping.MasterDataThreshold = 0.5
	cfg.Mapping.NameThreshold = 0.6
	cfg.Mapping.LowConfidenceThreshold = 0.7
	cfg.Batch.MaxConcurrent = 4
	cfg.Batch.RatePerSecond = 20
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateMap_AllPresent(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("map"))
}

func TestValidateMap_NoRegistry(t *testing.T) {
	cfg := validDefaults()
	cfg.Registry.Snapshot = ""
	cfg.Registry.CachePath = ""

	err := cfg.Validate("map")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "registry.snapshot or registry.cache_path is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.MaxConcurrent = 0
	err := cfg.Validate("batch")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "batch.max_concurrent must be between 1 and 50")

	cfg.Batch.MaxConcurrent = 51
	err = cfg.Validate("batch")
	assert.Error(t, err)

	cfg.Batch.MaxConcurrent = 50
	assert.NoError(t, cfg.Validate("batch"))
}

func TestValidateThresholdBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Mapping.MasterDataThreshold = -0.1
	err := cfg.Validate("map")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "master_data_threshold")

	cfg.Mapping.MasterDataThreshold = 0.5
	cfg.Mapping.LowConfidenceThreshold = 1.1
	err = cfg.Validate("map")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "low_confidence_threshold")
}
