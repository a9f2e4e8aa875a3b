package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func TestLoadParsesDurationsAndDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("OTP_SECRET", "otp-secret")

	path := writeConfig(t, `
app:
  env: development
  port: 3000
  read_timeout: 10s
  write_timeout: 10s
  idle_timeout: 1m
mongo:
  database: shuttle_tracker
  connect_timeout: 20s
redis:
  addr: localhost:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, time.Duration(cfg.App.ReadTimeout))
	assert.Equal(t, time.Minute, time.Duration(cfg.App.IdleTimeout))
	assert.Equal(t, 20*time.Second, time.Duration(cfg.Mongo.ConnectTimeout))

	// unset values fall back to defaults
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Redis.ConnectTimeout))
	assert.Equal(t, 60, cfg.App.JWT.TTLMinutes)
	assert.Equal(t, 6, cfg.Security.OtpDigits)
	assert.Equal(t, 7, cfg.Security.BlacklistRetentionDays)
	assert.Equal(t, "drivers", cfg.Collections.Drivers)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("OTP_SECRET", "otp-secret")

	path := writeConfig(t, `
app:
  read_timeout: banana
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("OTP_SECRET", "otp-secret")

	path := writeConfig(t, "app:\n  port: 3000\n")

	_, err := Load(path)
	assert.Error(t, err)
}
