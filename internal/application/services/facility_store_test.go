package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
)

func TestFacilityStore_ReplaceBumpsGeneration(t *testing.T) {
	store := NewFacilityStore()
	assert.Equal(t, uint64(0), store.Generation())

	g1 := store.Replace([]entities.Facility{facilityAt(1, "a")})
	g2 := store.Replace([]entities.Facility{facilityAt(2, "b"), facilityAt(3, "c")})

	assert.Equal(t, uint64(1), g1)
	assert.Equal(t, uint64(2), g2)
	assert.Equal(t, 2, store.Len())
}

func TestFacilityStore_SnapshotIsDeepCopy(t *testing.T) {
	store := NewFacilityStore()
	f := facilityAt(1, "a")
	f.Location = &entities.Location{Latitude: 1, Longitude: 2}
	store.Replace([]entities.Facility{f})

	snap := store.Snapshot()
	snap[0].Location.Latitude = 99
	snap[0].IsFavorite = true

	again := store.Snapshot()
	assert.Equal(t, 1.0, again[0].Location.Latitude)
	assert.False(t, again[0].IsFavorite)
}

func TestFacilityStore_MergeLocations(t *testing.T) {
	store := NewFacilityStore()
	gen := store.Replace([]entities.Facility{facilityAt(1, "a"), facilityAt(2, "b")})

	applied := store.MergeLocations(gen, map[int64]entities.Location{
		1:  {Latitude: 10, Longitude: 20},
		42: {Latitude: 1, Longitude: 1},
	})
	assert.Equal(t, 1, applied)

	// same result again is idempotent
	applied = store.MergeLocations(gen, map[int64]entities.Location{1: {Latitude: 10, Longitude: 20}})
	assert.Equal(t, 1, applied)

	f, ok := store.Find(1)
	require.True(t, ok)
	assert.Equal(t, 10.0, f.Location.Latitude)

	f, ok = store.Find(2)
	require.True(t, ok)
	assert.Nil(t, f.Location)
}

func TestFacilityStore_MergeFromStaleGenerationIsDiscarded(t *testing.T) {
	store := NewFacilityStore()
	stale := store.Replace([]entities.Facility{facilityAt(1, "a")})
	store.Replace([]entities.Facility{facilityAt(1, "a")})

	applied := store.MergeLocations(stale, map[int64]entities.Location{1: {Latitude: 1, Longitude: 1}})

	assert.Zero(t, applied)
	f, _ := store.Find(1)
	assert.Nil(t, f.Location)
}

func TestFacilityStore_ApplyFavorites(t *testing.T) {
	store := NewFacilityStore()
	first := facilityAt(1, "a")
	first.IsFavorite = true
	store.Replace([]entities.Facility{first, facilityAt(2, "b"), facilityAt(3, "c")})

	store.ApplyFavorites([]int64{2, 3, 99})

	snap := store.Snapshot()
	assert.False(t, snap[0].IsFavorite)
	assert.True(t, snap[1].IsFavorite)
	assert.True(t, snap[2].IsFavorite)
}

func TestFacilityStore_ToggleAndRestore(t *testing.T) {
	store := NewFacilityStore()
	store.Replace([]entities.Facility{facilityAt(1, "a"), facilityAt(2, "b")})
	store.ApplyFavorites([]int64{2})

	before, found := store.ToggleFavorite(1)
	require.True(t, found)
	assert.False(t, before.Facilities[0].IsFavorite)

	f, _ := store.Find(1)
	assert.True(t, f.IsFavorite)

	assert.True(t, store.Restore(before))
	assert.Equal(t, before.Facilities, store.Snapshot())
}

func TestFacilityStore_ToggleUnknownID(t *testing.T) {
	store := NewFacilityStore()
	store.Replace([]entities.Facility{facilityAt(1, "a")})

	_, found := store.ToggleFavorite(7)
	assert.False(t, found)
	assert.False(t, store.Snapshot()[0].IsFavorite)
}

func TestFacilityStore_RestoreAfterReplaceIsIgnored(t *testing.T) {
	store := NewFacilityStore()
	store.Replace([]entities.Facility{facilityAt(1, "a")})
	before, _ := store.ToggleFavorite(1)

	store.Replace([]entities.Facility{facilityAt(5, "e")})

	assert.False(t, store.Restore(before))
	snap := store.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, int64(5), snap[0].ID)
}

func TestFacilityStore_ConcurrentAccess(t *testing.T) {
	store := NewFacilityStore()
	var list []entities.Facility
	for i := int64(0); i < 50; i++ {
		list = append(list, facilityAt(i, "addr"))
	}
	gen := store.Replace(list)

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(3)
		go func(id int64) {
			defer wg.Done()
			store.ToggleFavorite(id)
		}(i)
		go func(id int64) {
			defer wg.Done()
			store.MergeLocations(gen, map[int64]entities.Location{id: {Latitude: 1, Longitude: 1}})
		}(i)
		go func() {
			defer wg.Done()
			_ = store.Snapshot()
		}()
	}
	wg.Wait()

	for _, f := range store.Snapshot() {
		assert.True(t, f.IsFavorite)
		assert.NotNil(t, f.Location)
	}
}
