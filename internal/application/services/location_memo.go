package services

import (
	"sync"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
)

type memoEntry struct {
	address  string
	location entities.Location
}

// LocationMemo remembers resolved coordinates per domain and facility id so a
// reload only geocodes new or moved facilities. An entry is reused only while
// the facility's address is unchanged.
type LocationMemo struct {
	mu      sync.RWMutex
	domains map[entities.Domain]map[int64]memoEntry
}

// NewLocationMemo creates an empty memo
func NewLocationMemo() *LocationMemo {
	return &LocationMemo{domains: make(map[entities.Domain]map[int64]memoEntry)}
}

// Apply copies remembered coordinates onto facilities lacking them and returns
// how many were filled. facilities is modified in place.
func (m *LocationMemo) Apply(domain entities.Domain, facilities []entities.Facility) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.domains[domain]
	filled := 0
	for i := range facilities {
		if facilities[i].HasLocation() {
			continue
		}
		e, ok := entries[facilities[i].ID]
		if !ok || e.address != facilities[i].Address {
			continue
		}
		loc := e.location
		facilities[i].Location = &loc
		filled++
	}
	return filled
}

// Record replaces the domain's entries with the located facilities of the
// latest listing, so ids gone from the directory are forgotten.
func (m *LocationMemo) Record(domain entities.Domain, located []entities.Facility) {
	entries := make(map[int64]memoEntry, len(located))
	for _, f := range located {
		if f.Location == nil {
			continue
		}
		entries[f.ID] = memoEntry{address: f.Address, location: *f.Location}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.domains[domain] = entries
}
