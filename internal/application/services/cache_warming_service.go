package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
)

// WarmResult reports one domain's warming pass
type WarmResult struct {
	Domain  entities.Domain `json:"domain"`
	Total   int             `json:"total"`
	Located int             `json:"located"`
	Error   string          `json:"error,omitempty"`
}

// CacheWarmingService pre-resolves directory addresses so the first session
// load of the day reads coordinates from the geocode cache. It only has an
// effect when the orchestrator's provider is wrapped in a cache.
type CacheWarmingService struct {
	directory providers.DirectoryProvider
	geocoder  *GeocodeOrchestrator
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(directory providers.DirectoryProvider, geocoder *GeocodeOrchestrator) *CacheWarmingService {
	return &CacheWarmingService{
		directory: directory,
		geocoder:  geocoder,
	}
}

// WarmCache geocodes every listed facility of each domain. A failing domain
// does not stop the others; all failures are joined into the returned error.
func (s *CacheWarmingService) WarmCache(ctx context.Context, domains ...entities.Domain) ([]WarmResult, error) {
	log.Info().Int("domains", len(domains)).Msg("Starting geocode cache warming")

	results := make([]WarmResult, 0, len(domains))
	var errs []error
	for _, domain := range domains {
		result, err := s.warmDomain(ctx, domain)
		if err != nil {
			result.Error = err.Error()
			errs = append(errs, err)
			log.Warn().Err(err).Str("domain", string(domain)).Msg("Failed to warm domain")
		}
		results = append(results, result)
	}

	log.Info().Msg("Geocode cache warming completed")
	return results, errors.Join(errs...)
}

func (s *CacheWarmingService) warmDomain(ctx context.Context, domain entities.Domain) (WarmResult, error) {
	result := WarmResult{Domain: domain}

	facilities, err := s.directory.ListFacilities(ctx, domain)
	if err != nil {
		return result, fmt.Errorf("failed to list %s facilities: %w", domain, err)
	}
	result.Total = len(facilities)
	result.Located = len(s.geocoder.ResolveAll(ctx, facilities))

	log.Info().
		Str("domain", string(domain)).
		Int("total", result.Total).
		Int("located", result.Located).
		Msg("Warmed geocode cache")
	return result, nil
}

// StartPeriodicWarming warms once in the background, then again every
// interval until ctx is cancelled.
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration, domains ...entities.Domain) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()

		// Initial warming
		if _, err := s.WarmCache(ctx, domains...); err != nil {
			log.Warn().Err(err).Msg("Initial cache warming failed")
		}

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Stopping cache warming service")
				return
			case <-ticker.C:
				if _, err := s.WarmCache(ctx, domains...); err != nil {
					log.Warn().Err(err).Msg("Periodic cache warming failed")
				}
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("Started periodic cache warming")
}
