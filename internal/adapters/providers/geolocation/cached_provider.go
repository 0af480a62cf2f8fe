package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/observability"
)

const (
	geocodeKeyPrefix       = "geo:v2:geocode:"
	defaultGeocodeCacheTTL = 60 * 60 * 24 * 30
)

// CachedProvider puts a CacheProvider in front of another GeolocationProvider.
// Cache errors never fail a lookup; they only cost an upstream call.
type CachedProvider struct {
	inner      providers.GeolocationProvider
	cache      providers.CacheProvider
	ttlSeconds int
}

// NewCachedProvider wraps inner. ttlSeconds <= 0 uses 30 days.
func NewCachedProvider(inner providers.GeolocationProvider, cache providers.CacheProvider, ttlSeconds int) providers.GeolocationProvider {
	if cache == nil {
		return inner
	}
	if ttlSeconds <= 0 {
		ttlSeconds = defaultGeocodeCacheTTL
	}
	return &CachedProvider{inner: inner, cache: cache, ttlSeconds: ttlSeconds}
}

// Geocode returns the cached coordinates for address or resolves and stores them
func (p *CachedProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	trimmed := strings.TrimSpace(address)
	key := geocodeCacheKey(trimmed)
	logger := observability.LoggerFromContext(ctx)

	cached, err := p.cache.Get(ctx, key)
	switch {
	case err == nil && len(cached) > 0:
		var coords providers.Coordinates
		if err := json.Unmarshal(cached, &coords); err == nil && (coords.Latitude != 0 || coords.Longitude != 0) {
			return &coords, nil
		}
	case err != nil && !errors.Is(err, providers.ErrCacheMiss):
		logger.Warn().Err(err).Msg("geocode cache read failed")
	}

	coords, err := p.inner.Geocode(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(coords); err == nil {
		if err := p.cache.Set(ctx, key, payload, p.ttlSeconds); err != nil {
			logger.Warn().Err(err).Msg("geocode cache write failed")
		}
	}
	return coords, nil
}

func geocodeCacheKey(address string) string {
	return geocodeKeyPrefix + hashKey(strings.ToLower(address))
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
