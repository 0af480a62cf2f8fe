package geolocation

import (
	"fmt"
	"strings"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	"github.com/Hash-621/TEAM202507-01-Final/pkg/config"
)

// NewProvider builds the configured geocoding backend without any cache layer
func NewProvider(cfg *config.GeolocationConfig) (providers.GeolocationProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "mock":
		return NewMockGeolocationProvider(), nil
	case "kakao":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("kakao geolocation requires GEOLOCATION_API_KEY")
		}
		return NewKakaoGeolocationProvider(cfg.APIKey), nil
	case "google":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("google geolocation requires GEOLOCATION_API_KEY")
		}
		return NewGoogleGeolocationProvider(cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown geolocation provider %q", cfg.Provider)
	}
}
