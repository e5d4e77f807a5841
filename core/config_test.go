package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "viewkit-console", cfg.Name)
	assert.Equal(t, DefaultSnapshotNamespace, cfg.Namespace)
	assert.False(t, cfg.Snapshot.Enabled)
	assert.Equal(t, Duration(DefaultSnapshotTTL), cfg.Snapshot.TTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestConfigLoadFromEnv(t *testing.T) {
	t.Setenv(EnvName, "env-console")
	t.Setenv(EnvNamespace, "env-ns")
	t.Setenv(EnvSnapshotEnabled, "true")
	t.Setenv(EnvRedisURL, "redis://env:6379")
	t.Setenv(EnvSnapshotTTL, "90s")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "text")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-console", cfg.Name)
	assert.Equal(t, "env-ns", cfg.Namespace)
	assert.True(t, cfg.Snapshot.Enabled)
	assert.Equal(t, "redis://env:6379", cfg.Snapshot.RedisURL)
	assert.Equal(t, Duration(90*time.Second), cfg.Snapshot.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestConfigRedisURLFallback(t *testing.T) {
	t.Setenv(EnvRedisURLFallback, "redis://fallback:6379")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, "redis://fallback:6379", cfg.Snapshot.RedisURL)

	// The viewkit-specific variable wins over the generic one.
	t.Setenv(EnvRedisURL, "redis://specific:6379")
	cfg = DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, "redis://specific:6379", cfg.Snapshot.RedisURL)
}

func TestConfigInvalidEnvValues(t *testing.T) {
	t.Setenv(EnvSnapshotEnabled, "not-a-bool")
	_, err := NewConfig()
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestConfigOptionsOverrideEnv(t *testing.T) {
	t.Setenv(EnvName, "env-console")

	cfg, err := NewConfig(WithName("option-console"))
	require.NoError(t, err)
	assert.Equal(t, "option-console", cfg.Name)
}

func TestConfigOptions(t *testing.T) {
	cfg, err := NewConfig(
		WithName("console"),
		WithNamespace("team-a"),
		WithRedisURL("redis://localhost:6379"),
		WithSnapshotTTL(time.Minute),
		WithLogLevel("warn"),
		WithLogFormat("text"),
		WithTelemetry("console-views"),
	)
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.Name)
	assert.Equal(t, "team-a", cfg.Namespace)
	assert.True(t, cfg.Snapshot.Enabled)
	assert.Equal(t, Duration(time.Minute), cfg.Snapshot.TTL)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "console-views", cfg.Telemetry.ServiceName)
}

func TestConfigOptionValidation(t *testing.T) {
	_, err := NewConfig(WithName(""))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewConfig(WithSnapshotTTL(-time.Second))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewConfig(WithTelemetry(""))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Snapshot.Enabled = true
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrMissingConfiguration, "snapshot enabled without redis url")

	cfg = DefaultConfig()
	cfg.Logging.Level = "verbose"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)

	cfg = DefaultConfig()
	cfg.Logging.Format = "xml"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
}

func TestConfigLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewkit.yaml")
	content := `
name: file-console
namespace: file-ns
snapshot:
  enabled: true
  redis_url: redis://file:6379
  ttl: 2m
logging:
  level: warn
  format: text
telemetry:
  enabled: true
  service_name: file-views
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewConfig(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, "file-console", cfg.Name)
	assert.Equal(t, "file-ns", cfg.Namespace)
	assert.True(t, cfg.Snapshot.Enabled)
	assert.Equal(t, "redis://file:6379", cfg.Snapshot.RedisURL)
	assert.Equal(t, Duration(2*time.Minute), cfg.Snapshot.TTL)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "file-views", cfg.Telemetry.ServiceName)
}

func TestConfigFileBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot:\n  ttl: nonsense\n"), 0o600))

	_, err := NewConfig(WithConfigFile(path))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestConfigFileMissing(t *testing.T) {
	_, err := NewConfig(WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Error(t, err)
}
