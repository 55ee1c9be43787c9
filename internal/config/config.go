// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MemoryDBPath selects the in-memory credential store instead of SQLite.
const MemoryDBPath = ":memory:"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr     string
	DBPath         string
	SecretKey      []byte // 32-byte AES-256 key; nil stores credentials as plaintext.
	GeminiAPIKey   string // Environment fallback; a credential saved via the GUI wins.
	GeminiEndpoint string
	GeminiTimeout  time.Duration
	LogLevel       slog.Level
	LogFormat      string
}

// UsesMemoryStore returns true when credentials should not be persisted.
func (c *Config) UsesMemoryStore() bool {
	return c.DBPath == MemoryDBPath
}

// CredentialFallbacks maps provider IDs to environment-provided credentials.
func (c *Config) CredentialFallbacks() map[string]string {
	return map[string]string{"gemini": c.GeminiAPIKey}
}

// NewLogger builds the process logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment. Variables already set are not overridden and
// missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional. Defaults: MAILDRAFT_LISTEN_ADDR (127.0.0.1:8080),
// MAILDRAFT_DB_PATH (maildraft.db), MAILDRAFT_GEMINI_TIMEOUT (30s),
// MAILDRAFT_LOG_LEVEL (info), MAILDRAFT_LOG_FORMAT (text).
// GOOGLE_API_KEY is read when MAILDRAFT_GEMINI_API_KEY is unset.
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("MAILDRAFT_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "maildraft.db"
	if v, ok := os.LookupEnv("MAILDRAFT_DB_PATH"); ok {
		dbPath = v
	}

	var secretKey []byte
	if v := os.Getenv("MAILDRAFT_SECRET_KEY"); v != "" {
		if len(v) != 64 {
			return nil, fmt.Errorf("MAILDRAFT_SECRET_KEY must be 64 hex characters (32 bytes), got %d characters", len(v))
		}
		decoded, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("MAILDRAFT_SECRET_KEY is not valid hex: %w", err)
		}
		secretKey = decoded
	}

	apiKey := strings.TrimSpace(os.Getenv("MAILDRAFT_GEMINI_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	}

	endpoint := os.Getenv("MAILDRAFT_GEMINI_ENDPOINT")

	timeout := 30 * time.Second
	if v, ok := os.LookupEnv("MAILDRAFT_GEMINI_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MAILDRAFT_GEMINI_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("MAILDRAFT_GEMINI_TIMEOUT must be positive, got %s", parsed)
		}
		timeout = parsed
	}

	var level slog.Level
	if v, ok := os.LookupEnv("MAILDRAFT_LOG_LEVEL"); ok && v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("MAILDRAFT_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	format := "text"
	if v, ok := os.LookupEnv("MAILDRAFT_LOG_FORMAT"); ok && v != "" {
		format = strings.ToLower(v)
		if format != "text" && format != "json" {
			return nil, fmt.Errorf("MAILDRAFT_LOG_FORMAT must be text or json, got %q", v)
		}
	}

	return &Config{
		ListenAddr:     listenAddr,
		DBPath:         dbPath,
		SecretKey:      secretKey,
		GeminiAPIKey:   apiKey,
		GeminiEndpoint: endpoint,
		GeminiTimeout:  timeout,
		LogLevel:       level,
		LogFormat:      format,
	}, nil
}
