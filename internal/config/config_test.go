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
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, ModeMemory, cfg.Catalog.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("catalog:\n  mode: remote\nremote:\n  base_url: http://catalog.internal\n  timeout: 2s\nhttp:\n  addr: \":9090\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("BOUCHAUTO_HTTP_ADDR", ":7070")
	t.Setenv("BOUCHAUTO_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeRemote, cfg.Catalog.Mode)
	assert.Equal(t, "http://catalog.internal", cfg.Remote.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "memory", mutate: func(c *Config) {}, ok: true},
		{name: "postgres without url", mutate: func(c *Config) { c.Catalog.Mode = ModePostgres }},
		{name: "postgres", mutate: func(c *Config) { c.Catalog.Mode = ModePostgres; c.Database.URL = "postgres://x" }, ok: true},
		{name: "remote without url", mutate: func(c *Config) { c.Catalog.Mode = ModeRemote }},
		{name: "unknown mode", mutate: func(c *Config) { c.Catalog.Mode = "sqlite" }},
		{name: "no rate", mutate: func(c *Config) { c.RateLimit.RPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
