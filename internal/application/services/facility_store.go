package services

import (
	"sync"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
)

// StoreSnapshot is a deep copy of the session collection tagged with the
// generation it was taken from.
type StoreSnapshot struct {
	Generation uint64
	Facilities []entities.Facility
}

// FacilityStore holds one session's facility collection. It is the only state
// shared between loading, favorite toggles and recommendation reads, so every
// method takes the lock and hands out copies.
type FacilityStore struct {
	mu         sync.RWMutex
	facilities []entities.Facility
	index      map[int64]int
	generation uint64
}

// NewFacilityStore creates an empty store at generation 0
func NewFacilityStore() *FacilityStore {
	return &FacilityStore{index: make(map[int64]int)}
}

// Replace swaps in a freshly fetched collection and returns its generation
func (s *FacilityStore) Replace(list []entities.Facility) uint64 {
	cloned := entities.CloneFacilities(list)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(cloned)
	s.generation++
	return s.generation
}

// Generation returns the generation of the current collection
func (s *FacilityStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Len returns the number of facilities held
func (s *FacilityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facilities)
}

// Snapshot returns a deep copy of the collection
func (s *FacilityStore) Snapshot() []entities.Facility {
	return s.Capture().Facilities
}

// Capture returns a deep copy of the collection with its generation
func (s *FacilityStore) Capture() StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreSnapshot{
		Generation: s.generation,
		Facilities: entities.CloneFacilities(s.facilities),
	}
}

// MergeLocations sets coordinates by facility id. Results computed for an older
// generation are discarded and ids no longer present are ignored. It returns the
// number of facilities updated.
func (s *FacilityStore) MergeLocations(generation uint64, locations map[int64]entities.Location) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return 0
	}

	applied := 0
	for id, loc := range locations {
		i, ok := s.index[id]
		if !ok {
			continue
		}
		l := loc
		s.facilities[i].Location = &l
		applied++
	}
	return applied
}

// ApplyFavorites marks exactly the given ids as favorite
func (s *FacilityStore) ApplyFavorites(ids []int64) {
	favorites := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		favorites[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.facilities {
		_, ok := favorites[s.facilities[i].ID]
		s.facilities[i].IsFavorite = ok
	}
}

// ToggleFavorite flips the favorite flag of id and returns the collection as it
// was before the flip. found is false when id is not in the collection, in which
// case nothing changes.
func (s *FacilityStore) ToggleFavorite(id int64) (before StoreSnapshot, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return StoreSnapshot{}, false
	}
	before = StoreSnapshot{
		Generation: s.generation,
		Facilities: entities.CloneFacilities(s.facilities),
	}
	s.facilities[i].IsFavorite = !s.facilities[i].IsFavorite
	return before, true
}

// Restore puts back a snapshot taken from the current generation. A snapshot
// from a replaced collection is ignored and Restore reports false.
func (s *FacilityStore) Restore(snapshot StoreSnapshot) bool {
	cloned := entities.CloneFacilities(snapshot.Facilities)

	s.mu.Lock()
	defer s.mu.Unlock()
	if snapshot.Generation != s.generation {
		return false
	}
	s.setLocked(cloned)
	return true
}

// Find returns a copy of the facility with id
func (s *FacilityStore) Find(id int64) (entities.Facility, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return entities.Facility{}, false
	}
	return s.facilities[i].Clone(), true
}

func (s *FacilityStore) setLocked(list []entities.Facility) {
	s.facilities = list
	s.index = make(map[int64]int, len(list))
	for i := range list {
		if _, dup := s.index[list[i].ID]; !dup {
			s.index[list[i].ID] = i
		}
	}
}
