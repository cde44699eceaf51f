package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/rewards"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	RedisAddr            string
	RedisDB              int
	CacheTTLSeconds      int
	StatsWorkerCount     int
	StatsQueueSize       int
	DefaultQuestionCount int
	MaxQuestionCount     int
	DefaultTheme         string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:timestables.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		RedisAddr:            envOr("REDIS_ADDR", ""),
		RedisDB:              envIntOr("REDIS_DB", 0),
		CacheTTLSeconds:      envIntOr("CACHE_TTL_SECONDS", 300),
		StatsWorkerCount:     envIntOr("STATS_WORKER_COUNT", 1),
		StatsQueueSize:       envIntOr("STATS_QUEUE_SIZE", 32),
		DefaultQuestionCount: envIntOr("DEFAULT_QUESTION_COUNT", 10),
		MaxQuestionCount:     envIntOr("MAX_QUESTION_COUNT", 50),
		DefaultTheme:         envOr("DEFAULT_THEME", "space"),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0, got %d", c.RedisDB)
	}
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be > 0, got %d", c.CacheTTLSeconds)
	}
	if c.StatsWorkerCount <= 0 {
		return fmt.Errorf("STATS_WORKER_COUNT must be > 0, got %d", c.StatsWorkerCount)
	}
	if c.StatsQueueSize <= 0 {
		return fmt.Errorf("STATS_QUEUE_SIZE must be > 0, got %d", c.StatsQueueSize)
	}
	if c.MaxQuestionCount <= 0 {
		return fmt.Errorf("MAX_QUESTION_COUNT must be > 0, got %d", c.MaxQuestionCount)
	}
	if c.DefaultQuestionCount <= 0 || c.DefaultQuestionCount > c.MaxQuestionCount {
		return fmt.Errorf("DEFAULT_QUESTION_COUNT must be between 1 and %d, got %d", c.MaxQuestionCount, c.DefaultQuestionCount)
	}
	if _, ok := rewards.ParseTheme(c.DefaultTheme); !ok {
		return fmt.Errorf("DEFAULT_THEME must be space, heroes or animals, got %q", c.DefaultTheme)
	}
	return nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
