package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_GeolocationConfig(t *testing.T) {
	t.Setenv("GEOLOCATION_PROVIDER", "kakao")
	t.Setenv("GEOLOCATION_API_KEY", "test-key")
	t.Setenv("GEOCODE_MAX_CONCURRENCY", "3")
	t.Setenv("GEOCODE_CACHE_BACKEND", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "kakao", cfg.Geolocation.Provider)
	assert.Equal(t, "test-key", cfg.Geolocation.APIKey)
	assert.Equal(t, 3, cfg.Geolocation.MaxConcurrency)
	assert.Equal(t, "redis", cfg.Geolocation.CacheBackend)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Geolocation.Provider)
	assert.Equal(t, 8, cfg.Geolocation.MaxConcurrency)
	assert.Equal(t, 5, cfg.Recommend.TopN)
	assert.Equal(t, "Asia/Seoul", cfg.App.Timezone)
	assert.Equal(t, 10*time.Second, cfg.Directory.Timeout())
	assert.Equal(t, 30*24*60*60, cfg.Geolocation.CacheTTLSeconds())
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("RECOMMEND_TOP_N", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Recommend.TopN)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("GEOLOCATION_PROVIDER", "bing")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestRedisAddr(t *testing.T) {
	c := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", c.RedisAddr())
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestWarmInterval(t *testing.T) {
	tests := []struct {
		name     string
		cfg      GeolocationConfig
		expected time.Duration
	}{
		{name: "disabled", cfg: GeolocationConfig{CacheBackend: "redis"}, expected: 0},
		{name: "no cache", cfg: GeolocationConfig{CacheBackend: "none", WarmIntervalMinutes: 30}, expected: 0},
		{name: "enabled", cfg: GeolocationConfig{CacheBackend: "postgres", WarmIntervalMinutes: 30}, expected: 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.WarmInterval())
		})
	}
}

func TestLoad_SessionIdleTTL(t *testing.T) {
	t.Setenv("SESSION_IDLE_MINUTES", "45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, cfg.Recommend.SessionIdleTTL())
}
