package entities

import "strings"

// Domain selects which directory listing a session works on
type Domain string

const (
	DomainHospital   Domain = "hospital"
	DomainRestaurant Domain = "restaurant"
)

// ParseDomain validates a domain path segment
func ParseDomain(raw string) (Domain, bool) {
	switch Domain(strings.ToLower(strings.TrimSpace(raw))) {
	case DomainHospital:
		return DomainHospital, true
	case DomainRestaurant:
		return DomainRestaurant, true
	}
	return "", false
}

// Facility is a directory record, optionally augmented with coordinates and the
// caller's favorite flag. Everything except Location and IsFavorite is fixed for
// the lifetime of a session.
type Facility struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Category   string    `json:"category"`
	HoursText  *string   `json:"hoursText,omitempty"`
	Menu       []string  `json:"menu,omitempty"`
	Location   *Location `json:"location,omitempty"`
	IsFavorite bool      `json:"isFavorite"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// HasLocation reports whether the facility can be placed on a map
func (f *Facility) HasLocation() bool {
	return f.Location != nil
}

// Clone returns a deep copy so callers can hand out snapshots without sharing
// pointers into the session collection.
func (f Facility) Clone() Facility {
	out := f
	if f.HoursText != nil {
		h := *f.HoursText
		out.HoursText = &h
	}
	if f.Location != nil {
		loc := *f.Location
		out.Location = &loc
	}
	if f.Menu != nil {
		out.Menu = append([]string(nil), f.Menu...)
	}
	return out
}

// CloneFacilities deep-copies a slice of facilities
func CloneFacilities(in []Facility) []Facility {
	if in == nil {
		return nil
	}
	out := make([]Facility, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// FacilityWithStatus is the list-display projection of a facility
type FacilityWithStatus struct {
	Facility
	Status BusinessStatus `json:"businessStatus"`
}
