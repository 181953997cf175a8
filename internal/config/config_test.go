package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "PORT", "SERVER_HOST", "DB_PATH", "EDIMAP_DATA_DIR", "EDIMAP_AI_ENABLED",
		"OPENAI_MODEL", "LOG_LEVEL", "LOG_FORMAT", "API_KEY_HEADER", "SERVER_MAX_BODY_BYTES")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "X-API-Key", cfg.Server.APIKeyHeader)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "data/edimap.db", cfg.Database.Path)
	assert.Equal(t, "data", cfg.Ingest.DataDir)
	assert.False(t, cfg.Ingest.AIEnabled)
	assert.InDelta(t, 0.6, cfg.Ingest.NeedsAIThreshold, 1e-9)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("EDIMAP_AI_ENABLED", "true")
	t.Setenv("EDIMAP_KEYWORDS", "項目名, データ型")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8081", cfg.Server.Addr())
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.True(t, cfg.Ingest.AIEnabled)
	assert.Len(t, cfg.Ingest.Keywords, 2)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.NotContains(t, cfg.String(), "sk-test")
	assert.Contains(t, cfg.String(), "[MASKED]")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edimap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
database:
  path: /var/lib/edimap/edimap.db
ingest:
  data_dir: /srv/edimap
  needs_ai_threshold: 0.5
logging:
  format: json
`), 0o644))

	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/var/lib/edimap/edimap.db", cfg.Database.Path)
	assert.Equal(t, "/srv/edimap", cfg.Ingest.DataDir)
	assert.InDelta(t, 0.5, cfg.Ingest.NeedsAIThreshold, 1e-9)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// unset in the file, taken from defaults
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateAggregatesErrors(t *testing.T) {
	t.Setenv("PORT", "70000")
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("EDIMAP_NEEDS_AI_THRESHOLD", "1.5")

	_, err := Load("")
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "Config.Server.Port")
	assert.Contains(t, msg, "Config.Logging.Format")
	assert.Contains(t, msg, "Config.Ingest.NeedsAIThreshold")
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "soon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestMustLoadPanics(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	assert.Panics(t, func() { MustLoad("") })
}
