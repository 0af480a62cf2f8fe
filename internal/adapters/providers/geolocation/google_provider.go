package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeolocationProvider implements the GeolocationProvider using the Google
// Geocoding API, biased to Korean results.
type GoogleGeolocationProvider struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewGoogleGeolocationProvider creates a new Google geolocation provider.
func NewGoogleGeolocationProvider(apiKey string) providers.GeolocationProvider {
	return NewGoogleGeolocationProviderWithOptions(apiKey, googleGeocodeURL, nil)
}

// NewGoogleGeolocationProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleGeolocationProviderWithOptions(apiKey, baseURL string, httpClient *http.Client) *GoogleGeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleGeolocationProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Geocode converts an address to coordinates.
func (g *GoogleGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("address is required")
	}
	if g.apiKey == "" {
		return nil, apperrors.NewValidationError("google maps api key is required")
	}

	params := url.Values{}
	params.Set("address", trimmed)
	params.Set("region", "kr")
	params.Set("language", "ko")
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", g.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("geocode request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError("geocode request failed", fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewExternalError("failed to decode geocode response", err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, providers.ErrNoGeocodeResult
	default:
		if payload.ErrorMessage != "" {
			return nil, apperrors.NewExternalError("geocode request failed", fmt.Errorf("%s - %s", payload.Status, payload.ErrorMessage))
		}
		return nil, apperrors.NewExternalError("geocode request failed", fmt.Errorf("%s", payload.Status))
	}
	if len(payload.Results) == 0 {
		return nil, providers.ErrNoGeocodeResult
	}

	loc := payload.Results[0].Geometry.Location
	return &providers.Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
