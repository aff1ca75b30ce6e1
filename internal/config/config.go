package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CatalogSourceSeed     = "seed"
	CatalogSourcePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Chat      ChatConfig
	Favorites FavoritesConfig
	Scrape    ScrapeConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	RESTPort string
	WSPort   string
}

type CatalogConfig struct {
	Source string
}

type DatabaseConfig struct {
	DSN string
}

type RedisConfig struct {
	URL string
}

// Enabled reports whether a Redis URL was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type ChatConfig struct {
	ReplyDelay time.Duration
}

type FavoritesConfig struct {
	DefaultIDs []string
}

type ScrapeConfig struct {
	Enabled   bool
	Workers   int
	Delay     time.Duration
	OutputDir string
	CacheTTL  time.Duration
	Year      int
	Headless  bool
	// KeysFile is the 247Sports "team,institution_key" CSV; empty disables 247
	KeysFile string
	// DailyHour queues a scrape every day at this hour; -1 disables it
	DailyHour int
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			RESTPort: getEnv("REST_PORT", "8080"),
			WSPort:   getEnv("WS_PORT", "8081"),
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourceSeed)),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Chat: ChatConfig{
			ReplyDelay: getEnvDuration("CHAT_REPLY_DELAY", time.Second),
		},
		Favorites: FavoritesConfig{
			DefaultIDs: parseCommaSeparated(getEnv("DEFAULT_FAVORITES", "1,3,6")),
		},
		Scrape: ScrapeConfig{
			Enabled:   getEnvBool("SCRAPE_ENABLED", true),
			Workers:   getEnvInt("SCRAPE_WORKERS", 3),
			Delay:     getEnvDuration("SCRAPE_DELAY", 1500*time.Millisecond),
			OutputDir: getEnv("SCRAPE_OUTPUT_DIR", "portal_data"),
			CacheTTL:  getEnvDuration("SCRAPE_CACHE_TTL", 6*time.Hour),
			Year:      getEnvInt("SCRAPE_YEAR", 2026),
			Headless:  getEnvBool("SCRAPE_HEADLESS", true),
			KeysFile:  getEnv("SCRAPE_247_KEYS", ""),
			DailyHour: getEnvInt("SCRAPE_DAILY_HOUR", -1),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.RESTPort == "" {
		return fmt.Errorf("REST_PORT is required")
	}
	if c.Server.WSPort == "" {
		return fmt.Errorf("WS_PORT is required")
	}
	switch c.Catalog.Source {
	case CatalogSourceSeed:
	case CatalogSourcePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when CATALOG_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q (want seed or postgres)", c.Catalog.Source)
	}
	if c.Scrape.Workers < 1 {
		return fmt.Errorf("SCRAPE_WORKERS must be at least 1")
	}
	if c.Scrape.Delay < 0 {
		return fmt.Errorf("SCRAPE_DELAY must not be negative")
	}
	if c.Scrape.DailyHour < -1 || c.Scrape.DailyHour > 23 {
		return fmt.Errorf("SCRAPE_DAILY_HOUR must be -1 or 0-23")
	}
	if c.Chat.ReplyDelay < 0 {
		return fmt.Errorf("CHAT_REPLY_DELAY must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("1.5s") or bare seconds ("2").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
