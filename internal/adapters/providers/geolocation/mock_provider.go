package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"strings"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

// Seoul City Hall
const (
	mockCenterLatitude  = 37.5665
	mockCenterLongitude = 126.9780
	mockSpreadDegrees   = 0.05
)

// MockGeolocationProvider places addresses deterministically around central
// Seoul without any network access. Districts it knows resolve near their
// actual centre.
type MockGeolocationProvider struct{}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() providers.GeolocationProvider {
	return &MockGeolocationProvider{}
}

var mockDistricts = []struct {
	name   string
	coords providers.Coordinates
}{
	{"강남구", providers.Coordinates{Latitude: 37.5172, Longitude: 127.0473}},
	{"종로구", providers.Coordinates{Latitude: 37.5730, Longitude: 126.9794}},
	{"중구", providers.Coordinates{Latitude: 37.5641, Longitude: 126.9979}},
	{"마포구", providers.Coordinates{Latitude: 37.5663, Longitude: 126.9019}},
	{"송파구", providers.Coordinates{Latitude: 37.5145, Longitude: 127.1066}},
	{"부산", providers.Coordinates{Latitude: 35.1796, Longitude: 129.0756}},
}

// Geocode converts an address to coordinates (mock implementation). Addresses
// containing "없는주소" resolve to nothing.
func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("address is required")
	}
	if strings.Contains(trimmed, "없는주소") {
		return nil, providers.ErrNoGeocodeResult
	}

	center := providers.Coordinates{Latitude: mockCenterLatitude, Longitude: mockCenterLongitude}
	spread := mockSpreadDegrees
	for _, d := range mockDistricts {
		if strings.Contains(trimmed, d.name) {
			center = d.coords
			spread = mockSpreadDegrees / 5
			break
		}
	}

	sum := sha256.Sum256([]byte(trimmed))
	latJitter := float64(binary.BigEndian.Uint16(sum[0:2]))/65535.0*2 - 1
	lngJitter := float64(binary.BigEndian.Uint16(sum[2:4]))/65535.0*2 - 1

	return &providers.Coordinates{
		Latitude:  center.Latitude + latJitter*spread,
		Longitude: center.Longitude + lngJitter*spread,
	}, nil
}
