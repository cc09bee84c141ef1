// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// DefaultEnvFiles are scanned when a request does not name any files.
var DefaultEnvFiles = []string{
	".env",
	".env.local",
	".env.development",
	".env.development.local",
	".env.staging",
	".env.production",
	".env.production.local",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr   string
	DBPath       string
	SecretKey    []byte
	EnvFiles     []string
	ScanHome     string
	GitHubAPIURL string
	LogLevel     slog.Level
}

// HasSecretKey reports whether a credential encryption key is configured.
// Without one the app still starts, but stores that hold secrets refuse to
// read or write them.
func (c *Config) HasSecretKey() bool {
	return len(c.SecretKey) > 0
}

// Load reads configuration from environment variables and returns a validated Config.
// INTEGRATIONHUB_SECRET_KEY is optional; when set it must be 64 hex characters
// (a 32-byte AES-256 key). Optional variables with defaults:
// INTEGRATIONHUB_LISTEN_ADDR (127.0.0.1:8080), INTEGRATIONHUB_DB_PATH
// (integrationhub.db), INTEGRATIONHUB_ENV_FILES (DefaultEnvFiles),
// INTEGRATIONHUB_SCAN_HOME (user home), INTEGRATIONHUB_GITHUB_API_URL
// (api.github.com), INTEGRATIONHUB_LOG_LEVEL (info).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("INTEGRATIONHUB_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "integrationhub.db"
	if v, ok := os.LookupEnv("INTEGRATIONHUB_DB_PATH"); ok {
		dbPath = v
	}

	var secretKey []byte
	if v := strings.TrimSpace(os.Getenv("INTEGRATIONHUB_SECRET_KEY")); v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("INTEGRATIONHUB_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("INTEGRATIONHUB_SECRET_KEY must be 32 bytes (64 hex chars), got %d bytes", len(key))
		}
		secretKey = key
	}

	envFiles := append([]string(nil), DefaultEnvFiles...)
	if v, ok := os.LookupEnv("INTEGRATIONHUB_ENV_FILES"); ok && v != "" {
		envFiles = nil
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !strings.HasPrefix(name, ".env") || strings.ContainsAny(name, `/\`) {
				return nil, fmt.Errorf("INTEGRATIONHUB_ENV_FILES has invalid file name %q", name)
			}
			envFiles = append(envFiles, name)
		}
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("INTEGRATIONHUB_LOG_LEVEL"); ok && v != "" {
		parsed, err := ParseLogLevel(v)
		if err != nil {
			return nil, err
		}
		logLevel = parsed
	}

	return &Config{
		ListenAddr:   listenAddr,
		DBPath:       dbPath,
		SecretKey:    secretKey,
		EnvFiles:     envFiles,
		ScanHome:     os.Getenv("INTEGRATIONHUB_SCAN_HOME"),
		GitHubAPIURL: os.Getenv("INTEGRATIONHUB_GITHUB_API_URL"),
		LogLevel:     logLevel,
	}, nil
}

// ParseLogLevel accepts debug, info, warn or error, case-insensitively.
func ParseLogLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		return 0, fmt.Errorf("INTEGRATIONHUB_LOG_LEVEL has invalid level %q: %w", v, err)
	}
	return level, nil
}
