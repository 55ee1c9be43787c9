package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"MAILDRAFT_LISTEN_ADDR",
	"MAILDRAFT_DB_PATH",
	"MAILDRAFT_SECRET_KEY",
	"MAILDRAFT_GEMINI_API_KEY",
	"MAILDRAFT_GEMINI_ENDPOINT",
	"MAILDRAFT_GEMINI_TIMEOUT",
	"MAILDRAFT_LOG_LEVEL",
	"MAILDRAFT_LOG_FORMAT",
	"GOOGLE_API_KEY",
}

// isolateConfigEnv saves and unsets all config env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("MAILDRAFT_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("MAILDRAFT_DB_PATH", "/tmp/test.db")
	t.Setenv("MAILDRAFT_GEMINI_API_KEY", " AIza-test ")
	t.Setenv("MAILDRAFT_GEMINI_ENDPOINT", "http://localhost:9999/generate")
	t.Setenv("MAILDRAFT_GEMINI_TIMEOUT", "5s")
	t.Setenv("MAILDRAFT_LOG_LEVEL", "debug")
	t.Setenv("MAILDRAFT_LOG_FORMAT", "JSON")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "AIza-test", cfg.GeminiAPIKey)
	assert.Equal(t, "http://localhost:9999/generate", cfg.GeminiEndpoint)
	assert.Equal(t, 5*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.UsesMemoryStore())
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "maildraft.db", cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Empty(t, cfg.GeminiEndpoint)
	assert.Nil(t, cfg.SecretKey)
}

func TestLoad_GeminiKeyAlias(t *testing.T) {
	t.Run("alias used when primary unset", func(t *testing.T) {
		isolateConfigEnv(t)
		t.Setenv("GOOGLE_API_KEY", "legacy")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "legacy", cfg.GeminiAPIKey)
		assert.Equal(t, map[string]string{"gemini": "legacy"}, cfg.CredentialFallbacks())
	})

	t.Run("primary wins over alias", func(t *testing.T) {
		isolateConfigEnv(t)
		t.Setenv("GOOGLE_API_KEY", "legacy")
		t.Setenv("MAILDRAFT_GEMINI_API_KEY", "primary")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "primary", cfg.GeminiAPIKey)
	})
}

func TestLoad_MemoryStore(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("MAILDRAFT_DB_PATH", ":memory:")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.UsesMemoryStore())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "timeout not a duration", key: "MAILDRAFT_GEMINI_TIMEOUT", value: "soon", wantErr: "MAILDRAFT_GEMINI_TIMEOUT"},
		{name: "timeout not positive", key: "MAILDRAFT_GEMINI_TIMEOUT", value: "0s", wantErr: "MAILDRAFT_GEMINI_TIMEOUT"},
		{name: "unknown log level", key: "MAILDRAFT_LOG_LEVEL", value: "loud", wantErr: "MAILDRAFT_LOG_LEVEL"},
		{name: "unknown log format", key: "MAILDRAFT_LOG_FORMAT", value: "xml", wantErr: "MAILDRAFT_LOG_FORMAT"},
		{name: "secret key too short", key: "MAILDRAFT_SECRET_KEY", value: "deadbeef", wantErr: "MAILDRAFT_SECRET_KEY"},
		{
			name:    "secret key not hex",
			key:     "MAILDRAFT_SECRET_KEY",
			value:   "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
			wantErr: "MAILDRAFT_SECRET_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_SecretKey_Valid(t *testing.T) {
	isolateConfigEnv(t)
	// 64 hex chars = 32 bytes
	t.Setenv("MAILDRAFT_SECRET_KEY", "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Len(t, cfg.SecretKey, 32)
}

func TestLoadDotEnv(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("MAILDRAFT_LISTEN_ADDR", "127.0.0.1:7000")

	path := filepath.Join(t.TempDir(), ".env")
	content := "MAILDRAFT_LISTEN_ADDR=0.0.0.0:1\nGOOGLE_API_KEY=from-dotenv\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.ListenAddr, "existing env must not be overridden")
	assert.Equal(t, "from-dotenv", cfg.GeminiAPIKey)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: slog.LevelWarn, LogFormat: "json"}

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}
