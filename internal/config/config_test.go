package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvPostgresDSN, "")
	t.Setenv(EnvJWTSecret, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultChannel, cfg.Ingest.DefaultChannel)
	assert.Equal(t, DefaultLogsLimit, cfg.Ingest.LogsDefaultLimit)
	assert.Equal(t, DefaultLogsMaxLimit, cfg.Ingest.LogsMaxLimit)
	assert.True(t, cfg.Ingest.MonotonicActivity)
	assert.Equal(t, "postgres://postgres@127.0.0.1:5432/waledger?sslmode=disable", cfg.Postgres.DSN())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Setenv(EnvPostgresDSN, "")
	t.Setenv(EnvJWTSecret, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9090"

[auth]
jwt_secret = "file-secret"
jwt_expires_in = "2h"

[postgres]
host = "db"
port = 6543
user = "app"
password = "p@ss"
database = "inbound"

[ingest]
monotonic_activity = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	expires, err := cfg.Auth.ExpiresIn()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, expires)
	assert.Equal(t, "postgres://app:p%40ss@db:6543/inbound?sslmode=disable", cfg.Postgres.DSN())
	assert.False(t, cfg.Ingest.MonotonicActivity)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultChannel, cfg.Ingest.DefaultChannel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvPostgresDSN, "postgres://u:p@elsewhere:5432/other")
	t.Setenv(EnvJWTSecret, "env-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@elsewhere:5432/other", cfg.Postgres.DSN())
	assert.Equal(t, "other", cfg.Postgres.DatabaseName())
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\naddr="), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.ErrorContains(t, cfg.Validate(), "jwt_secret")

	cfg.Auth.JWTSecret = "s"
	assert.NoError(t, cfg.Validate())

	cfg.Auth.JWTExpiresIn = "-1h"
	assert.ErrorContains(t, cfg.Validate(), "positive")

	cfg.Auth.JWTExpiresIn = "soon"
	assert.ErrorContains(t, cfg.Validate(), "jwt_expires_in")

	cfg = Default()
	cfg.Auth.JWTSecret = "s"
	cfg.Postgres.Database = ""
	assert.ErrorContains(t, cfg.Validate(), "postgres.database")
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	t.Setenv(EnvPostgresDSN, "")
	t.Setenv(EnvJWTSecret, "")

	cfg, err := Load(filepath.Join("..", "..", "config.example.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
