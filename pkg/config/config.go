package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional, universe source)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Statement provider
	Provider ProviderConfig

	// Cache
	Cache CacheConfig

	// Comparison / screening
	Batch BatchConfig

	// Scheduled cache warm-up
	Warm WarmConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ProviderConfig holds Yahoo Finance fundamentals configuration
type ProviderConfig struct {
	BaseURL       string
	Timeout       time.Duration // 재무제표 1건당
	MaxRetries    int
	UserAgent     string
	LookbackYears int
	RateLimit     int // 초당 요청 수 (Redis 활성 시)
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	Backend string // memory, redis
	TTL     time.Duration
	MaxSize int
}

// BatchConfig holds compare/screener limits and pacing
type BatchConfig struct {
	CompareDelay time.Duration
	ScreenDelay  time.Duration
	CompareMax   int
	UniverseMax  int
}

// WarmConfig holds the cache warm-up job configuration
type WarmConfig struct {
	Enabled  bool
	Schedule string
	Tickers  []string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "stockscope"),
			User:            getEnv("DB_USER", "stockscope"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Provider
		Provider: ProviderConfig{
			BaseURL:       getEnv("PROVIDER_BASE_URL", "https://query2.finance.yahoo.com"),
			Timeout:       getEnvAsDuration("PROVIDER_TIMEOUT", "12s"),
			MaxRetries:    getEnvAsInt("PROVIDER_MAX_RETRIES", 2),
			UserAgent:     getEnv("PROVIDER_USER_AGENT", "Mozilla/5.0 (compatible; stockscope/1.0)"),
			LookbackYears: getEnvAsInt("PROVIDER_LOOKBACK_YEARS", 3),
			RateLimit:     getEnvAsInt("PROVIDER_RATE_LIMIT", 5),
		},

		// Cache
		Cache: CacheConfig{
			Backend: strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
			TTL:     getEnvAsDuration("CACHE_TTL", "6h"),
			MaxSize: getEnvAsInt("CACHE_MAX_SIZE", 200),
		},

		// Batch
		Batch: BatchConfig{
			CompareDelay: getEnvAsDuration("COMPARE_DELAY", "100ms"),
			ScreenDelay:  getEnvAsDuration("SCREEN_DELAY", "50ms"),
			CompareMax:   getEnvAsInt("COMPARE_MAX", 20),
			UniverseMax:  getEnvAsInt("UNIVERSE_MAX", 500),
		},

		// Warm-up
		Warm: WarmConfig{
			Enabled:  getEnvAsBool("WARM_ENABLED", false),
			Schedule: getEnv("WARM_SCHEDULE", "0 0 */6 * * *"),
			Tickers:  getEnvAsList("WARM_TICKERS"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("CACHE_BACKEND=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.MaxSize <= 0 {
		return fmt.Errorf("CACHE_MAX_SIZE must be positive")
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	if c.Provider.MaxRetries < 0 {
		return fmt.Errorf("PROVIDER_MAX_RETRIES must not be negative")
	}
	if c.Batch.CompareMax <= 0 || c.Batch.UniverseMax <= 0 {
		return fmt.Errorf("COMPARE_MAX and UNIVERSE_MAX must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
