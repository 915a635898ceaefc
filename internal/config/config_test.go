package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfigFile(t, `
listen_addr = "0.0.0.0:9000"
base_url    = "https://doctrack.example.com"
log_level   = "debug"

postgres {
  host    = "db.internal"
  port    = 5433
  user    = "doctrack"
  dbname  = "doctrack_prod"
  sslmode = "require"
}
`)

		cfg, err := NewConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
		assert.Equal(t, "https://doctrack.example.com", cfg.BaseURL)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "db.internal", cfg.Postgres.Host)
		assert.Equal(t, 5433, cfg.Postgres.Port)
		assert.Equal(t, "doctrack", cfg.Postgres.User)
		assert.Equal(t, "doctrack_prod", cfg.Postgres.DBName)
		assert.Equal(t, "require", cfg.Postgres.SSLMode)
	})

	t.Run("defaults fill the gaps", func(t *testing.T) {
		path := writeConfigFile(t, `
log_level = "warn"
`)

		cfg, err := NewConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8000", cfg.ListenAddr)
		assert.Equal(t, "warn", cfg.LogLevel)
		require.NotNil(t, cfg.Postgres)
		assert.Equal(t, "localhost", cfg.Postgres.Host)
		assert.Equal(t, 5432, cfg.Postgres.Port)
		assert.Equal(t, "postgres", cfg.Postgres.User)
		assert.Equal(t, "doctrack", cfg.Postgres.DBName)
		assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DOCTRACK_LISTEN_ADDR", "127.0.0.1:7000")
		t.Setenv("DOCTRACK_POSTGRES_PASSWORD", "hunter2")
		t.Setenv("DOCTRACK_POSTGRES_PORT", "6543")

		path := writeConfigFile(t, `
postgres {
  host = "db.internal"
}
`)

		cfg, err := NewConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:7000", cfg.ListenAddr)
		assert.Equal(t, "db.internal", cfg.Postgres.Host)
		assert.Equal(t, "hunter2", cfg.Postgres.Password)
		assert.Equal(t, 6543, cfg.Postgres.Port)
	})

	t.Run("invalid HCL", func(t *testing.T) {
		path := writeConfigFile(t, `listen_addr = `)

		_, err := NewConfig(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewConfig(filepath.Join(t.TempDir(), "nope.hcl"))
		require.Error(t, err)
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "127.0.0.1:8000", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, "doctrack", cfg.Postgres.DBName)
}
