package providers

import (
	"context"

	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

// GeolocationProvider resolves free-text addresses to coordinates. Implementations
// must be safe to call from many goroutines at once.
type GeolocationProvider interface {
	// Geocode converts an address to coordinates. An address with no match
	// returns ErrNoGeocodeResult.
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ErrNoGeocodeResult is returned when the provider found nothing for an address
var ErrNoGeocodeResult = apperrors.NewNotFoundError("no geocode result for address")
