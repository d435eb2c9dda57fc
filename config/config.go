package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultServerPort = 8000
	defaultMaxPlayers = 32
	minPlayers        = 2
	defaultDBTimeout  = 5 * time.Second
)

// Config holds every setting of the server. Only the core settings are
// required; the database and the R2 archive are enabled when configured.
type Config struct {
	ServerPort     int
	MaxPlayers     int
	AllowedOrigins []string
	LogLevel       string
	Level          slog.Level

	DatabaseURL     string
	DatabaseTimeout time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := intFromEnv("SERVER_PORT", defaultServerPort)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	maxPlayers, err := intFromEnv("MAX_PLAYERS", defaultMaxPlayers)
	if err != nil {
		return nil, err
	}
	if maxPlayers < minPlayers {
		return nil, fmt.Errorf("MAX_PLAYERS must be at least %d, got %d", minPlayers, maxPlayers)
	}

	dbTimeout := defaultDBTimeout
	if raw := os.Getenv("DATABASE_TIMEOUT"); raw != "" {
		dbTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_TIMEOUT environment variable: %w", err)
		}
	}

	cfg := &Config{
		ServerPort:        port,
		MaxPlayers:        maxPlayers,
		AllowedOrigins:    splitList(os.Getenv("ALLOWED_ORIGINS")),
		LogLevel:          strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DatabaseTimeout:   dbTimeout,
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if err := cfg.Level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable %q: must be debug, info, warn or error", cfg.LogLevel)
	}

	return cfg, nil
}

func intFromEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
