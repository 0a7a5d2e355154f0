package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.True(t, cfg.IsDev())
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.SnapshotTTL)
	assert.Equal(t, 8*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*time.Second, cfg.HTTPWriteTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=9000\nSTORE_DRIVER=rest\nRECORD_STORE_URL=https://x.supabase.co\nRECORD_STORE_KEY=k\n"), 0o600))

	t.Setenv("PORT", "9100")
	t.Setenv("SNAPSHOT_TTL", "5m")

	cfg, err := load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, DriverREST, cfg.StoreDriver)
	assert.Equal(t, "https://x.supabase.co", cfg.RecordStoreURL)
	assert.Equal(t, 5*time.Minute, cfg.SnapshotTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_LegacyDSN(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/dosis")

	cfg, err := load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://u:p@localhost:5432/dosis", cfg.DatabaseURL)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{Env: "development", StoreDriver: DriverMemory, SnapshotTTL: time.Minute}
	}

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.StoreDriver = "mongo" }},
		{"postgres without url", func(c *Config) { c.StoreDriver = DriverPostgres }},
		{"rest without key", func(c *Config) { c.StoreDriver = DriverREST; c.RecordStoreURL = "https://x" }},
		{"zero ttl", func(c *Config) { c.SnapshotTTL = 0 }},
		{"prod short secret", func(c *Config) {
			c.Env = "production"
			c.StoreDriver = DriverPostgres
			c.DatabaseURL = "postgres://x"
			c.JWTSecret = "short"
		}},
		{"prod memory", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "0123456789abcdef0123456789abcdef"
		}},
		{"admin weak password", func(c *Config) { c.AdminUsername = "admin"; c.AdminPassword = "123" }},
		{"bad tz", func(c *Config) { c.ReportTZ = "Mars/Olympus" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	ok := base()
	ok.ReportTZ = "UTC"
	assert.NoError(t, ok.Validate())
}
