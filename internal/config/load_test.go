package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.Backend.Timeout.Duration)
	require.Equal(t, 5, cfg.Realtime.MaxAttempts)
	require.Equal(t, time.Second, cfg.Realtime.BackoffUnit.Duration)
	require.Equal(t, "none", cfg.AI.Provider)
	require.Equal(t, "mentoro-game-store", cfg.Store.Key)
}

func TestLoadFileJSON(t *testing.T) {
	p := writeFile(t, "config.json", `{
		"backend": {"base_url": "http://api.test/", "timeout": "2s"},
		"realtime": {"backoff_unit": 250000000},
		"ai": {"provider": "Gemini", "api_key": "k"}
	}`)
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	require.Equal(t, "http://api.test", cfg.Backend.BaseURL)
	require.Equal(t, 2*time.Second, cfg.Backend.Timeout.Duration)
	require.Equal(t, 250*time.Millisecond, cfg.Realtime.BackoffUnit.Duration)
	require.Equal(t, "gemini", cfg.AI.Provider)
	require.Equal(t, "gemini-1.5-flash", cfg.AI.Model)
	// untouched sections keep their defaults
	require.Equal(t, 5, cfg.Realtime.MaxAttempts)
}

func TestLoadFileYAML(t *testing.T) {
	p := writeFile(t, "config.yaml", `
backend:
  timeout: 3s
realtime:
  enabled: true
  max_attempts: 2
store:
  driver: sqlite
  dsn: mentoro.db
`)
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.Backend.Timeout.Duration)
	require.True(t, cfg.Realtime.Enabled)
	require.Equal(t, 2, cfg.Realtime.MaxAttempts)
	require.Equal(t, "sqlite", cfg.Store.Driver)
	require.Equal(t, "mentoro.db", cfg.Store.DSN)
}

func TestLoadFileTOML(t *testing.T) {
	p := writeFile(t, "config.toml", `
[ai]
provider = "openai"
timeout = "45s"

[store]
driver = "memory"
`)
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	require.Equal(t, "openai", cfg.AI.Provider)
	require.Equal(t, 45*time.Second, cfg.AI.Timeout.Duration)
	require.Equal(t, "https://api.openai.com", cfg.AI.BaseURL)
	require.Equal(t, "memory", cfg.Store.Driver)
}

func TestEnvOverridesFile(t *testing.T) {
	p := writeFile(t, "config.json", `{"backend": {"base_url": "http://file"}}`)
	t.Setenv("MENTORO_BACKEND_URL", "http://env")
	t.Setenv("MENTORO_BACKEND_TIMEOUT", "1s")
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	require.Equal(t, "http://env", cfg.Backend.BaseURL)
	require.Equal(t, time.Second, cfg.Backend.Timeout.Duration)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	p := writeFile(t, "config.json", `{"store": {"driver": "mongo"}}`)
	_, err := LoadFile(p)
	require.Error(t, err)
}

func TestUnsupportedExtension(t *testing.T) {
	p := writeFile(t, "config.ini", "x=1")
	_, err := LoadFile(p)
	require.Error(t, err)
}
