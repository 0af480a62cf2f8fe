package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/clients/postgres"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

var fixedNow = time.Date(2025, time.January, 6, 3, 0, 0, 0, time.UTC)

func setupGeocodeCache(t *testing.T) (*GeocodeCacheAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	adapter := NewGeocodeCacheAdapter(postgres.NewClientFromDB(db), nil)
	adapter.now = func() time.Time { return fixedNow }
	return adapter, mock
}

func TestGeocodeCacheAdapter_GetHit(t *testing.T) {
	adapter, mock := setupGeocodeCache(t)

	mock.ExpectQuery(`SELECT "value" FROM "geocode_cache" WHERE .*"cache_key" = 'k1'.*"expires_at" > '2025-01-06T03:00:00Z'.*LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"latitude":37.5,"longitude":127}`)))

	value, err := adapter.Get(context.Background(), "k1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"latitude":37.5,"longitude":127}`, string(value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeocodeCacheAdapter_GetMiss(t *testing.T) {
	adapter, mock := setupGeocodeCache(t)

	mock.ExpectQuery(`SELECT "value" FROM "geocode_cache"`).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := adapter.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, providers.ErrCacheMiss))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeocodeCacheAdapter_GetDatabaseError(t *testing.T) {
	adapter, mock := setupGeocodeCache(t)

	mock.ExpectQuery(`SELECT "value" FROM "geocode_cache"`).
		WillReturnError(errors.New("connection reset"))

	_, err := adapter.Get(context.Background(), "k1")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.False(t, errors.Is(err, providers.ErrCacheMiss))
}

func TestGeocodeCacheAdapter_SetUpserts(t *testing.T) {
	adapter, mock := setupGeocodeCache(t)

	mock.ExpectExec(`INSERT INTO "geocode_cache" .*ON CONFLICT.*DO UPDATE SET.*EXCLUDED\.value`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Set(context.Background(), "k1", []byte("v"), 3600)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeocodeCacheAdapter_Delete(t *testing.T) {
	adapter, mock := setupGeocodeCache(t)

	mock.ExpectExec(`DELETE FROM "geocode_cache" WHERE .*"cache_key" = 'k1'`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.Delete(context.Background(), "k1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeocodeCacheAdapter_Exists(t *testing.T) {
	adapter, mock := setupGeocodeCache(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "geocode_cache"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := adapter.Exists(context.Background(), "k1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeocodeCacheAdapter_PurgeExpired(t *testing.T) {
	adapter, mock := setupGeocodeCache(t)

	mock.ExpectExec(`DELETE FROM "geocode_cache" WHERE .*"expires_at" <= '2025-01-06T03:00:00Z'`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := adapter.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeocodeCacheAdapter_EnsureSchema(t *testing.T) {
	adapter, mock := setupGeocodeCache(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS geocode_cache`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, adapter.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
