package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port           int
	DatabaseURL    string
	RedisAddr      string
	DataDir        string
	FFmpegPath     string
	MigrationsDir  string
}

func Load() *Config {
	return &Config{
		Port:          envInt("PORT", 8095),
		DatabaseURL:   env("DATABASE_URL", "postgres://skipvault:skipvault@db:5432/skipvault?sslmode=disable"),
		RedisAddr:     env("REDIS_ADDR", "redis:6379"),
		DataDir:       env("DATA_DIR", "/data"),
		FFmpegPath:    env("FFMPEG_PATH", "ffmpeg"),
		MigrationsDir: env("MIGRATIONS_DIR", "migrations"),
	}
}

// FingerprintCacheDir is where per-episode fingerprint files live.
func (c *Config) FingerprintCacheDir() string {
	return filepath.Join(c.DataDir, "fingerprints")
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
