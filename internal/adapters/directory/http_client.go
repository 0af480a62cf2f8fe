package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
	"github.com/Hash-621/TEAM202507-01-Final/pkg/retry"
)

// HTTPClient talks to the facility directory REST API. The caller's
// Authorization header travels in the context and is forwarded as-is.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	retry      retry.Config
}

// NewHTTPClient creates a directory client. timeout <= 0 uses 10 seconds.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry.RequestConfig(),
	}
}

var _ providers.DirectoryProvider = (*HTTPClient)(nil)

// facilityRecord accepts both the hospital and the restaurant listing shapes
type facilityRecord struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	TreatCategory string   `json:"treatCategory"`
	Type          string   `json:"type"`
	RestCategory  string   `json:"restCategory"`
	Menu          []string `json:"menu"`
	RestOpenTime  *string  `json:"restOpenTime"`
	OpenTime      *string  `json:"openTime"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
}

func (r facilityRecord) toEntity() entities.Facility {
	f := entities.Facility{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		Category:  firstNonEmpty(r.TreatCategory, r.RestCategory, r.Type),
		HoursText: r.RestOpenTime,
		Menu:      r.Menu,
	}
	if f.HoursText == nil || strings.TrimSpace(*f.HoursText) == "" {
		f.HoursText = r.OpenTime
	}
	if r.Lat != nil && r.Lng != nil && (*r.Lat != 0 || *r.Lng != 0) {
		f.Location = &entities.Location{Latitude: *r.Lat, Longitude: *r.Lng}
	}
	return f
}

type favoriteRecord struct {
	ID int64 `json:"id"`
}

// ListFacilities fetches GET /{domain}
func (c *HTTPClient) ListFacilities(ctx context.Context, domain entities.Domain) ([]entities.Facility, error) {
	var records []facilityRecord
	err := retry.Do(ctx, c.retry, "directory.list", func(ctx context.Context) error {
		records = nil
		return c.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, domain), nil, &records)
	})
	if err != nil {
		return nil, err
	}

	out := make([]entities.Facility, 0, len(records))
	for _, r := range records {
		out = append(out, r.toEntity())
	}
	return out, nil
}

// ListFavorites fetches GET /mypage/favorites
func (c *HTTPClient) ListFavorites(ctx context.Context) ([]int64, error) {
	if _, ok := providers.CredentialsFromContext(ctx); !ok {
		return nil, apperrors.NewUnauthorizedError("no credentials for favorites")
	}

	var records []favoriteRecord
	err := retry.Do(ctx, c.retry, "directory.favorites", func(ctx context.Context) error {
		records = nil
		return c.doJSON(ctx, http.MethodGet, c.baseURL+"/mypage/favorites", nil, &records)
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// ToggleFavorite calls POST /{domain}/{id}/favorite exactly once; a retried
// flip could land twice.
func (c *HTTPClient) ToggleFavorite(ctx context.Context, domain entities.Domain, id int64) error {
	endpoint := fmt.Sprintf("%s/%s/%d/favorite", c.baseURL, domain, id)
	err := c.doJSON(ctx, http.MethodPost, endpoint, nil, nil)
	var p *retry.Permanent
	if errors.As(err, &p) {
		return p.Err
	}
	return err
}

// doJSON performs one request. 5xx and transport failures are returned as
// retryable EXTERNAL errors; other non-2xx statuses are wrapped in
// retry.Permanent.
func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &retry.Permanent{Err: apperrors.NewInternalError("failed to build directory request", err)}
	}
	httpReq.Header.Set("Accept", "application/json")
	if auth, ok := providers.CredentialsFromContext(ctx); ok {
		httpReq.Header.Set("Authorization", auth)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperrors.NewExternalError("directory request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &retry.Permanent{Err: &apperrors.AppError{
			Type:    apperrors.ErrorTypeUnauthorized,
			Message: "directory rejected credentials",
			Err:     fmt.Errorf("status %d", resp.StatusCode),
		}}
	case resp.StatusCode >= 500:
		return apperrors.NewExternalError("directory request failed", fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &retry.Permanent{Err: apperrors.NewExternalError("directory request failed", fmt.Errorf("status %d", resp.StatusCode))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &retry.Permanent{Err: apperrors.NewExternalError("failed to decode directory response", err)}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
