package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Server      ServerConfig
	Directory   DirectoryConfig
	Geolocation GeolocationConfig
	Recommend   RecommendConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	OTEL        OTELConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Env      string
	LogLevel string
	Timezone string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DirectoryConfig holds the remote facility directory API configuration
type DirectoryConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// GeolocationConfig holds geolocation provider configuration
type GeolocationConfig struct {
	Provider       string
	APIKey         string
	MaxConcurrency int
	CacheBackend   string
	CacheTTLDays   int

	// WarmIntervalMinutes of 0 disables periodic cache warming
	WarmIntervalMinutes int
}

// RecommendConfig holds recommendation tuning
type RecommendConfig struct {
	TopN               int
	SessionIdleMinutes int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
			Timezone: getEnv("TIMEZONE", "Asia/Seoul"),
		},
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Directory: DirectoryConfig{
			BaseURL:        getEnv("DIRECTORY_BASE_URL", "http://localhost:8081/api"),
			TimeoutSeconds: getEnvAsInt("DIRECTORY_TIMEOUT_SECONDS", 10),
		},
		Geolocation: GeolocationConfig{
			Provider:       getEnv("GEOLOCATION_PROVIDER", "mock"),
			APIKey:         getEnv("GEOLOCATION_API_KEY", ""),
			MaxConcurrency: getEnvAsInt("GEOCODE_MAX_CONCURRENCY", 8),
			CacheBackend:   getEnv("GEOCODE_CACHE_BACKEND", "none"),
			CacheTTLDays:   getEnvAsInt("GEOCODE_CACHE_TTL_DAYS", 30),

			WarmIntervalMinutes: getEnvAsInt("GEOCODE_WARM_INTERVAL_MINUTES", 0),
		},
		Recommend: RecommendConfig{
			TopN:               getEnvAsInt("RECOMMEND_TOP_N", 5),
			SessionIdleMinutes: getEnvAsInt("SESSION_IDLE_MINUTES", 30),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "citycare"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "citycare-recommender"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with
func (c *Config) Validate() error {
	switch c.Geolocation.Provider {
	case "mock", "kakao", "google":
	default:
		return fmt.Errorf("unknown geolocation provider %q", c.Geolocation.Provider)
	}
	switch c.Geolocation.CacheBackend {
	case "none", "redis", "postgres":
	default:
		return fmt.Errorf("unknown geocode cache backend %q", c.Geolocation.CacheBackend)
	}
	if c.Geolocation.MaxConcurrency < 0 {
		return fmt.Errorf("GEOCODE_MAX_CONCURRENCY must not be negative")
	}
	if c.Recommend.TopN <= 0 {
		return fmt.Errorf("RECOMMEND_TOP_N must be positive")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return nil
}

// Location returns the wall-clock location used to resolve business hours
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Timeout returns the directory HTTP timeout
func (c *DirectoryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTLSeconds returns the geocode cache TTL in seconds
func (c *GeolocationConfig) CacheTTLSeconds() int {
	return c.CacheTTLDays * 24 * 60 * 60
}

// WarmInterval returns the cache warming period, zero when disabled
func (c *GeolocationConfig) WarmInterval() time.Duration {
	if c.WarmIntervalMinutes <= 0 || c.CacheBackend == "none" {
		return 0
	}
	return time.Duration(c.WarmIntervalMinutes) * time.Minute
}

// SessionIdleTTL returns how long an untouched caller session is kept
func (c *RecommendConfig) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
