package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
	"github.com/Hash-621/TEAM202507-01-Final/pkg/retry"
)

const (
	kakaoAddressSearchURL = "https://dapi.kakao.com/v2/local/search/address.json"
	defaultHTTPTimeout    = 8 * time.Second
)

// KakaoGeolocationProvider resolves Korean addresses with the Kakao Local
// address search API.
type KakaoGeolocationProvider struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	retry      retry.Config
}

// NewKakaoGeolocationProvider creates a provider against the public endpoint
func NewKakaoGeolocationProvider(apiKey string) providers.GeolocationProvider {
	return NewKakaoGeolocationProviderWithOptions(apiKey, kakaoAddressSearchURL, nil)
}

// NewKakaoGeolocationProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewKakaoGeolocationProviderWithOptions(apiKey, baseURL string, httpClient *http.Client) *KakaoGeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = kakaoAddressSearchURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &KakaoGeolocationProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		baseURL:    baseURL,
		retry:      retry.RequestConfig(),
	}
}

// Geocode returns the first address match. Rate limiting and server errors are
// retried; other failures are not.
func (k *KakaoGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("address is required")
	}
	if k.apiKey == "" {
		return nil, apperrors.NewValidationError("kakao rest api key is required")
	}

	var payload kakaoAddressResponse
	err := retry.Do(ctx, k.retry, "kakao.geocode", func(ctx context.Context) error {
		return k.search(ctx, trimmed, &payload)
	})
	if err != nil {
		return nil, err
	}

	if len(payload.Documents) == 0 {
		return nil, providers.ErrNoGeocodeResult
	}

	doc := payload.Documents[0]
	lng, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, apperrors.NewExternalError("invalid longitude in kakao response", err)
	}
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, apperrors.NewExternalError("invalid latitude in kakao response", err)
	}
	return &providers.Coordinates{Latitude: lat, Longitude: lng}, nil
}

func (k *KakaoGeolocationProvider) search(ctx context.Context, query string, out *kakaoAddressResponse) error {
	params := url.Values{}
	params.Set("query", query)
	params.Set("size", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return &retry.Permanent{Err: fmt.Errorf("failed to build geocode request: %w", err)}
	}
	req.Header.Set("Authorization", "KakaoAK "+k.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("geocode request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return apperrors.NewExternalError("geocode request failed", fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &retry.Permanent{Err: apperrors.NewExternalError("geocode request rejected", fmt.Errorf("status %d", resp.StatusCode))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &retry.Permanent{Err: apperrors.NewExternalError("failed to decode geocode response", err)}
	}
	return nil
}

type kakaoAddressResponse struct {
	Meta struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
	Documents []kakaoAddressDocument `json:"documents"`
}

type kakaoAddressDocument struct {
	AddressName string `json:"address_name"`
	X           string `json:"x"`
	Y           string `json:"y"`
}
