package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
	"github.com/Hash-621/TEAM202507-01-Final/pkg/retry"
)

func TestKakaoProvider_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "KakaoAK test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "서울 중구 세종대로 110", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meta":{"total_count":1},"documents":[{"address_name":"서울 중구 세종대로 110","x":"126.978","y":"37.5665"}]}`))
	}))
	defer server.Close()

	provider := NewKakaoGeolocationProviderWithOptions("test-key", server.URL, server.Client())
	coords, err := provider.Geocode(context.Background(), "  서울 중구 세종대로 110 ")

	require.NoError(t, err)
	assert.InDelta(t, 37.5665, coords.Latitude, 1e-9)
	assert.InDelta(t, 126.978, coords.Longitude, 1e-9)
}

func TestKakaoProvider_NoDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"total_count":0},"documents":[]}`))
	}))
	defer server.Close()

	provider := NewKakaoGeolocationProviderWithOptions("test-key", server.URL, server.Client())
	_, err := provider.Geocode(context.Background(), "없는 주소")

	assert.True(t, errors.Is(err, providers.ErrNoGeocodeResult))
}

func TestKakaoProvider_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"documents":[{"x":"127.0","y":"37.5"}]}`))
	}))
	defer server.Close()

	provider := NewKakaoGeolocationProviderWithOptions("test-key", server.URL, server.Client())
	provider.retry = retry.Config{MaxAttempts: 3, BackoffFactor: 1}

	coords, err := provider.Geocode(context.Background(), "서울")
	require.NoError(t, err)
	assert.Equal(t, 37.5, coords.Latitude)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestKakaoProvider_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := NewKakaoGeolocationProviderWithOptions("bad-key", server.URL, server.Client())
	provider.retry = retry.Config{MaxAttempts: 3, BackoffFactor: 1}

	_, err := provider.Geocode(context.Background(), "서울")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestKakaoProvider_RequiresKeyAndAddress(t *testing.T) {
	_, err := NewKakaoGeolocationProviderWithOptions("", "http://unused", nil).Geocode(context.Background(), "서울")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = NewKakaoGeolocationProviderWithOptions("k", "http://unused", nil).Geocode(context.Background(), " ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestGoogleProvider_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "kr", r.URL.Query().Get("region"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"x","geometry":{"location":{"lat":37.1,"lng":127.2}}}]}`))
	}))
	defer server.Close()

	provider := NewGoogleGeolocationProviderWithOptions("test-key", server.URL, server.Client())
	coords, err := provider.Geocode(context.Background(), "서울")

	require.NoError(t, err)
	assert.Equal(t, 37.1, coords.Latitude)
	assert.Equal(t, 127.2, coords.Longitude)
}

func TestGoogleProvider_StatusHandling(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		notFound bool
	}{
		{name: "zero results", body: `{"status":"ZERO_RESULTS","results":[]}`, notFound: true},
		{name: "denied", body: `{"status":"REQUEST_DENIED","error_message":"bad key"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewGoogleGeolocationProviderWithOptions("k", server.URL, server.Client())
			_, err := provider.Geocode(context.Background(), "서울")

			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, providers.ErrNoGeocodeResult))
			if !tt.notFound {
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
			}
		})
	}
}

func TestMockProvider_IsDeterministic(t *testing.T) {
	provider := NewMockGeolocationProvider()
	ctx := context.Background()

	first, err := provider.Geocode(ctx, "서울 강남구 테헤란로 1")
	require.NoError(t, err)
	second, err := provider.Geocode(ctx, "서울 강남구 테헤란로 1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.InDelta(t, 37.5172, first.Latitude, 0.011)
	assert.InDelta(t, 127.0473, first.Longitude, 0.011)

	other, err := provider.Geocode(ctx, "서울 강남구 테헤란로 2")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	_, err = provider.Geocode(ctx, "없는주소 1")
	assert.True(t, errors.Is(err, providers.ErrNoGeocodeResult))
}

// memoryCache is an in-process CacheProvider
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, errors.New("cache down")
	}
	v, ok := c.entries[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}

type countingProvider struct {
	calls  int32
	coords *providers.Coordinates
	err    error
}

func (p *countingProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	atomic.AddInt32(&p.calls, 1)
	return p.coords, p.err
}

func TestCachedProvider_CacheAside(t *testing.T) {
	inner := &countingProvider{coords: &providers.Coordinates{Latitude: 37.5, Longitude: 127.0}}
	cache := newMemoryCache()
	provider := NewCachedProvider(inner, cache, 60)
	ctx := context.Background()

	first, err := provider.Geocode(ctx, "서울 중구")
	require.NoError(t, err)
	second, err := provider.Geocode(ctx, " 서울 중구 ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))

	stored, ok := cache.entries[geocodeCacheKey("서울 중구")]
	require.True(t, ok)
	var coords providers.Coordinates
	require.NoError(t, json.Unmarshal(stored, &coords))
	assert.Equal(t, 37.5, coords.Latitude)
}

func TestCachedProvider_FailuresAreNotCached(t *testing.T) {
	inner := &countingProvider{err: providers.ErrNoGeocodeResult}
	cache := newMemoryCache()
	provider := NewCachedProvider(inner, cache, 60)

	_, err := provider.Geocode(context.Background(), "어딘가")
	assert.True(t, errors.Is(err, providers.ErrNoGeocodeResult))
	assert.Empty(t, cache.entries)
}

func TestCachedProvider_CacheErrorFallsThrough(t *testing.T) {
	inner := &countingProvider{coords: &providers.Coordinates{Latitude: 1, Longitude: 2}}
	cache := newMemoryCache()
	cache.failGet = true
	provider := NewCachedProvider(inner, cache, 60)

	coords, err := provider.Geocode(context.Background(), "서울")
	require.NoError(t, err)
	assert.Equal(t, 1.0, coords.Latitude)
}

func TestCachedProvider_NilCacheReturnsInner(t *testing.T) {
	inner := &countingProvider{}
	assert.Same(t, inner, NewCachedProvider(inner, nil, 0))
}
