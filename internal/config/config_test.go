package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://image.tmdb.org/t/p", cfg.TMDB.ImageBaseURL)
	assert.Equal(t, "w500", cfg.TMDB.PosterSize)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.False(t, cfg.DeveloperMode)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 9090
tmdb:
  api_key: from-file
  poster_size: w342
cache:
  ttl: 90s
retry:
  max_attempts: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Address())
	assert.Equal(t, "from-file", cfg.TMDB.APIKey)
	assert.Equal(t, "w342", cfg.TMDB.PosterSize)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "tmdb:\n  api_key: from-file\n")
	t.Setenv("MOVIERECS_TMDB_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TMDB.APIKey)
}

func TestLoad_LegacyAPIKeyVariable(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	t.Setenv("VITE_TMBD_API_KEY", "legacy-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.TMDB.APIKey)
}

func TestLoad_LegacyAPIKeyBeatsEmbeddedKey(t *testing.T) {
	embedded := EmbeddedTMDBKey
	EmbeddedTMDBKey = "embedded-key"
	t.Cleanup(func() { EmbeddedTMDBKey = embedded })

	path := writeConfig(t, "server:\n  port: 8080\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "embedded-key", cfg.TMDB.APIKey)

	t.Setenv("VITE_TMBD_API_KEY", "legacy-key")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.TMDB.APIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"no attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, true},
		{"no base url", func(c *Config) { c.TMDB.BaseURL = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_YAMLMasksAPIKey(t *testing.T) {
	cfg := Default()
	cfg.TMDB.APIKey = "secret-key"
	cfg.Server.Port = 9090

	data, err := cfg.YAML()
	require.NoError(t, err)

	out := string(data)
	assert.NotContains(t, out, "secret-key")
	assert.Contains(t, out, redactedValue)
	assert.Contains(t, out, "port: 9090")
	assert.Contains(t, out, "ttl: 10m0s")
	assert.Equal(t, "secret-key", cfg.TMDB.APIKey)
}

func TestConfig_YAMLRoundTripsThroughLoad(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 9191
	cfg.Retry.MaxAttempts = 4

	data, err := cfg.YAML()
	require.NoError(t, err)

	loaded, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, 9191, loaded.Server.Port)
	assert.Equal(t, 4, loaded.Retry.MaxAttempts)
	assert.Equal(t, cfg.Cache.TTL, loaded.Cache.TTL)
}
