package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/observability"
)

// DefaultGeocodeConcurrency bounds in-flight geocode calls per batch
const DefaultGeocodeConcurrency = 8

// GeocodeOrchestrator resolves coordinates for a facility batch in parallel.
// Failures drop the facility; they never fail the batch.
type GeocodeOrchestrator struct {
	geo            providers.GeolocationProvider
	maxConcurrency int
	metrics        *observability.Metrics
}

// NewGeocodeOrchestrator creates an orchestrator. maxConcurrency 0 starts one
// goroutine per facility; negative values use DefaultGeocodeConcurrency.
func NewGeocodeOrchestrator(geo providers.GeolocationProvider, maxConcurrency int, metrics *observability.Metrics) *GeocodeOrchestrator {
	if maxConcurrency < 0 {
		maxConcurrency = DefaultGeocodeConcurrency
	}
	return &GeocodeOrchestrator{
		geo:            geo,
		maxConcurrency: maxConcurrency,
		metrics:        metrics,
	}
}

// ResolveAll returns the facilities that have coordinates after one geocoding
// attempt each. Facilities that already carry a location are kept without a
// call. Output order follows input order. The input is not modified.
func (o *GeocodeOrchestrator) ResolveAll(ctx context.Context, facilities []entities.Facility) []entities.Facility {
	ctx, span := observability.StartSpan(ctx, "GeocodeOrchestrator.ResolveAll")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	slots := make([]*entities.Facility, len(facilities))
	var pending []int
	for i := range facilities {
		switch {
		case facilities[i].HasLocation():
			f := facilities[i].Clone()
			slots[i] = &f
		case strings.TrimSpace(facilities[i].Address) == "":
			logger.Debug().Int64("facility_id", facilities[i].ID).Msg("skipping facility without address")
		default:
			pending = append(pending, i)
		}
	}

	var resolved, failed int64
	if len(pending) > 0 {
		workers := o.maxConcurrency
		if workers == 0 || workers > len(pending) {
			workers = len(pending)
		}

		jobs := make(chan int, len(pending))
		for _, idx := range pending {
			jobs <- idx
		}
		close(jobs)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for idx := range jobs {
					f, err := o.resolveOne(ctx, facilities[idx])
					if err != nil {
						atomic.AddInt64(&failed, 1)
						logger.Debug().
							Err(err).
							Int64("facility_id", facilities[idx].ID).
							Str("address", facilities[idx].Address).
							Msg("geocoding failed, dropping facility")
						continue
					}
					atomic.AddInt64(&resolved, 1)
					// each index is written by exactly one worker
					slots[idx] = f
				}
			}()
		}
		wg.Wait()
	}

	out := make([]entities.Facility, 0, len(facilities))
	for _, f := range slots {
		if f != nil {
			out = append(out, *f)
		}
	}

	span.SetAttributes(
		attribute.Int("geocode.requested", len(pending)),
		attribute.Int64("geocode.resolved", resolved),
		attribute.Int64("geocode.failed", failed),
	)
	observability.RecordGeocodeBatch(ctx, o.metrics, int(resolved), int(failed), time.Since(start))
	logger.Info().
		Int("total", len(facilities)).
		Int("requested", len(pending)).
		Int64("resolved", resolved).
		Int64("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("geocoding batch settled")

	return out
}

func (o *GeocodeOrchestrator) resolveOne(ctx context.Context, f entities.Facility) (*entities.Facility, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	coords, err := o.geo.Geocode(ctx, f.Address)
	if err != nil {
		return nil, err
	}
	if coords == nil {
		return nil, providers.ErrNoGeocodeResult
	}
	out := f.Clone()
	out.Location = &entities.Location{Latitude: coords.Latitude, Longitude: coords.Longitude}
	return &out, nil
}
