package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/clients/postgres"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/observability"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

const (
	geocodeCacheTable = "geocode_cache"
	backendName       = "postgres"
)

const createGeocodeCacheTable = `CREATE TABLE IF NOT EXISTS geocode_cache (
	cache_key  TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at TIMESTAMPTZ NOT NULL
)`

// noExpiry stands in for "never expires" since expires_at is NOT NULL
var noExpiry = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// GeocodeCacheAdapter is a durable CacheProvider backed by the geocode_cache
// table. Geocoded addresses survive restarts, unlike the Redis cache.
type GeocodeCacheAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
	now     func() time.Time
}

// NewGeocodeCacheAdapter creates a new Postgres cache adapter. metrics may be nil.
func NewGeocodeCacheAdapter(client *postgres.Client, metrics *observability.Metrics) *GeocodeCacheAdapter {
	return &GeocodeCacheAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
		now:     time.Now,
	}
}

var _ providers.CacheProvider = (*GeocodeCacheAdapter)(nil)

// EnsureSchema creates the cache table when missing
func (a *GeocodeCacheAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.client.DB().ExecContext(ctx, createGeocodeCacheTable); err != nil {
		return apperrors.NewInternalError("failed to create geocode cache table", err)
	}
	return nil
}

// Get returns a value that has not expired yet
func (a *GeocodeCacheAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := a.db.From(geocodeCacheTable).
		Select("value").
		Where(
			goqu.C("cache_key").Eq(key),
			goqu.C("expires_at").Gt(a.now().UTC()),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build cache select query", err)
	}

	var value []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		observability.RecordCacheMiss(ctx, a.metrics, backendName)
		return nil, providers.ErrCacheMiss
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read geocode cache", err)
	}

	observability.RecordCacheHit(ctx, a.metrics, backendName)
	return value, nil
}

// Set upserts a value. Zero expiration stores it without expiry.
func (a *GeocodeCacheAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	now := a.now().UTC()
	expiresAt := noExpiry
	if expirationSeconds > 0 {
		expiresAt = now.Add(time.Duration(expirationSeconds) * time.Second)
	}

	query, args, err := a.db.Insert(geocodeCacheTable).
		Rows(goqu.Record{
			"cache_key":  key,
			"value":      value,
			"created_at": now,
			"expires_at": expiresAt,
		}).
		OnConflict(goqu.DoUpdate("cache_key", goqu.Record{
			"value":      goqu.L("EXCLUDED.value"),
			"created_at": goqu.L("EXCLUDED.created_at"),
			"expires_at": goqu.L("EXCLUDED.expires_at"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build cache upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to write geocode cache", err)
	}
	return nil
}

// Delete removes a value
func (a *GeocodeCacheAdapter) Delete(ctx context.Context, key string) error {
	query, args, err := a.db.Delete(geocodeCacheTable).
		Where(goqu.C("cache_key").Eq(key)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build cache delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete geocode cache entry", err)
	}
	return nil
}

// Exists reports whether an unexpired value is stored under key
func (a *GeocodeCacheAdapter) Exists(ctx context.Context, key string) (bool, error) {
	query, args, err := a.db.From(geocodeCacheTable).
		Select(goqu.COUNT("*")).
		Where(
			goqu.C("cache_key").Eq(key),
			goqu.C("expires_at").Gt(a.now().UTC()),
		).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build cache count query", err)
	}

	var count int64
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check geocode cache", err)
	}
	return count > 0, nil
}

// PurgeExpired deletes expired rows and returns how many were removed
func (a *GeocodeCacheAdapter) PurgeExpired(ctx context.Context) (int64, error) {
	query, args, err := a.db.Delete(geocodeCacheTable).
		Where(goqu.C("expires_at").Lte(a.now().UTC())).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build cache purge query", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to purge geocode cache", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to count purged rows", err)
	}
	return n, nil
}
