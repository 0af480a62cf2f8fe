package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

func TestSessionKey(t *testing.T) {
	anonymous := SessionKey(context.Background())
	alice := SessionKey(providers.WithCredentials(context.Background(), "Bearer alice"))
	bob := SessionKey(providers.WithCredentials(context.Background(), "Bearer bob"))

	assert.Equal(t, AnonymousSession, anonymous)
	assert.NotEqual(t, alice, bob)
	assert.NotContains(t, alice, "alice")
	assert.Equal(t, alice, SessionKey(providers.WithCredentials(context.Background(), "Bearer alice")))
}

func TestSessionRegistry_StoresArePerCallerAndDomain(t *testing.T) {
	registry := NewSessionRegistry(time.Hour, nil)
	alice := providers.WithCredentials(context.Background(), "Bearer alice")

	aliceHospitals, err := registry.Store(alice, entities.DomainHospital)
	require.NoError(t, err)
	again, err := registry.Store(alice, entities.DomainHospital)
	require.NoError(t, err)
	aliceRestaurants, err := registry.Store(alice, entities.DomainRestaurant)
	require.NoError(t, err)
	anonymousHospitals, err := registry.Store(context.Background(), entities.DomainHospital)
	require.NoError(t, err)

	assert.Same(t, aliceHospitals, again)
	assert.NotSame(t, aliceHospitals, aliceRestaurants)
	assert.NotSame(t, aliceHospitals, anonymousHospitals)
	assert.Equal(t, 2, registry.Len())
}

func TestSessionRegistry_UnknownDomain(t *testing.T) {
	registry := NewSessionRegistry(time.Hour, nil)

	_, err := registry.Store(context.Background(), entities.Domain("pharmacy"))

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Zero(t, registry.Len())
}

func TestSessionRegistry_IdleSessionsAreDropped(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	registry := NewSessionRegistry(10*time.Minute, func() time.Time { return now })
	alice := providers.WithCredentials(context.Background(), "Bearer alice")

	first, err := registry.Store(alice, entities.DomainHospital)
	require.NoError(t, err)
	first.Replace([]entities.Facility{facilityAt(1, "a")})

	now = now.Add(5 * time.Minute)
	_, err = registry.Store(context.Background(), entities.DomainHospital)
	require.NoError(t, err)
	assert.Equal(t, 2, registry.Len())

	now = now.Add(8 * time.Minute)
	second, err := registry.Store(context.Background(), entities.DomainHospital)
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())

	fresh, err := registry.Store(alice, entities.DomainHospital)
	require.NoError(t, err)
	assert.NotSame(t, first, fresh)
	assert.Zero(t, fresh.Len())
	assert.NotNil(t, second)
}

func TestSessionRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewSessionRegistry(time.Hour, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := providers.WithCredentials(context.Background(), string(rune('a'+i%4)))
			_, err := registry.Store(ctx, entities.DomainHospital)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, registry.Len())
}
