package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/providers"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/observability"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

// ErrLoginRequired is returned when the directory rejects a favorite toggle
var ErrLoginRequired = apperrors.NewUnauthorizedError("로그인이 필요합니다.")

// ErrFacilityNotLoaded is returned for ids missing from the session collection
var ErrFacilityNotLoaded = apperrors.NewNotFoundError("facility not loaded")

// SessionSummary describes a completed LoadSession
type SessionSummary struct {
	Domain             entities.Domain `json:"domain"`
	Generation         uint64          `json:"generation"`
	Total              int             `json:"total"`
	Located            int             `json:"located"`
	Favorites          int             `json:"favorites"`
	FavoritesAvailable bool            `json:"favoritesAvailable"`
}

// RecommendationService coordinates directory loading, geocoding, symptom
// classification, ranking and favorite toggles. Facility collections live in a
// SessionRegistry, one per caller and domain; resolved coordinates are shared
// across sessions through a LocationMemo.
type RecommendationService struct {
	directory  providers.DirectoryProvider
	geocoder   *GeocodeOrchestrator
	classifier *UrgencyClassifier
	ranker     *FacilityRanker
	hours      *BusinessHoursService
	sessions   *SessionRegistry
	locations  *LocationMemo
	metrics    *observability.Metrics
	clock      func() time.Time
}

// NewRecommendationService wires the coordinator. A nil registry gets one with
// the default idle TTL.
func NewRecommendationService(
	directory providers.DirectoryProvider,
	geocoder *GeocodeOrchestrator,
	classifier *UrgencyClassifier,
	ranker *FacilityRanker,
	hours *BusinessHoursService,
	sessions *SessionRegistry,
	metrics *observability.Metrics,
) *RecommendationService {
	if sessions == nil {
		sessions = NewSessionRegistry(DefaultSessionIdleTTL, nil)
	}
	return &RecommendationService{
		directory:  directory,
		geocoder:   geocoder,
		classifier: classifier,
		ranker:     ranker,
		hours:      hours,
		sessions:   sessions,
		locations:  NewLocationMemo(),
		metrics:    metrics,
		clock:      time.Now,
	}
}

// Store returns the calling session's collection of domain
func (s *RecommendationService) Store(ctx context.Context, domain entities.Domain) (*FacilityStore, error) {
	return s.sessions.Store(ctx, domain)
}

// LoadSession fetches the domain's facilities and the caller's favorites
// concurrently, replaces the caller's collection and resolves coordinates for
// every facility the memo cannot fill. A favorites failure only means nothing is marked
// favorite; a listing failure fails the load.
func (s *RecommendationService) LoadSession(ctx context.Context, domain entities.Domain) (*SessionSummary, error) {
	ctx, span := observability.StartSpan(ctx, "RecommendationService.LoadSession")
	defer span.End()
	span.SetAttributes(attribute.String("facility.domain", string(domain)))
	logger := observability.LoggerFromContext(ctx)

	store, err := s.Store(ctx, domain)
	if err != nil {
		return nil, err
	}

	var (
		wg           sync.WaitGroup
		facilities   []entities.Facility
		favorites    []int64
		listErr      error
		favoritesErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		facilities, listErr = s.directory.ListFacilities(ctx, domain)
	}()
	go func() {
		defer wg.Done()
		favorites, favoritesErr = s.directory.ListFavorites(ctx)
	}()
	wg.Wait()

	if listErr != nil {
		observability.RecordError(span, listErr)
		logger.Error().Err(listErr).Str("domain", string(domain)).Msg("failed to load facilities")
		if apperrors.IsType(listErr, apperrors.ErrorTypeExternal) {
			return nil, listErr
		}
		return nil, apperrors.NewExternalError("failed to load facilities", listErr)
	}
	if favoritesErr != nil {
		logger.Warn().Err(favoritesErr).Msg("favorites unavailable, continuing without them")
		favorites = nil
	}

	facilities = entities.CloneFacilities(facilities)
	reused := s.locations.Apply(domain, facilities)

	generation := store.Replace(facilities)
	store.ApplyFavorites(favorites)

	located := s.geocoder.ResolveAll(ctx, facilities)
	s.locations.Record(domain, located)
	locations := make(map[int64]entities.Location, len(located))
	for _, f := range located {
		if f.Location != nil {
			locations[f.ID] = *f.Location
		}
	}
	merged := store.MergeLocations(generation, locations)
	if merged == 0 && len(locations) > 0 {
		logger.Debug().Uint64("generation", generation).Msg("geocoding results superseded by a newer load")
	}

	summary := &SessionSummary{
		Domain:             domain,
		Generation:         generation,
		Total:              len(facilities),
		Located:            merged,
		Favorites:          len(favorites),
		FavoritesAvailable: favoritesErr == nil,
	}

	span.SetAttributes(
		attribute.Int("facility.total", summary.Total),
		attribute.Int("facility.located", summary.Located),
	)
	logger.Info().
		Str("domain", string(domain)).
		Uint64("generation", generation).
		Int("total", summary.Total).
		Int("located", summary.Located).
		Int("reused_locations", reused).
		Int("favorites", summary.Favorites).
		Msg("session loaded")

	return summary, nil
}

// Recommend classifies symptom text and ranks the caller's loaded hospitals for
// it. Blank text is a no-op and returns nil without error.
func (s *RecommendationService) Recommend(ctx context.Context, text string) (*entities.Recommendation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	ctx, span := observability.StartSpan(ctx, "RecommendationService.Recommend")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	classification, err := s.classifier.Classify(text)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	store, err := s.Store(ctx, entities.DomainHospital)
	if err != nil {
		return nil, err
	}
	ranked := s.ranker.Rank(store.Snapshot(), classification)

	rec := &entities.Recommendation{
		ID:             uuid.New().String(),
		Query:          text,
		Classification: classification,
		Facilities:     ranked,
		CreatedAt:      s.clock(),
	}

	span.SetAttributes(
		attribute.String("recommendation.id", rec.ID),
		attribute.String("recommendation.urgency", string(classification.Urgency)),
		attribute.Int("recommendation.results", len(ranked)),
	)
	observability.RecordRecommendation(ctx, s.metrics, string(classification.Urgency), classification.IsComplex)
	logger.Info().
		Str("recommendation_id", rec.ID).
		Str("urgency", string(classification.Urgency)).
		Bool("complex", classification.IsComplex).
		Strs("departments", classification.Departments).
		Int("results", len(ranked)).
		Msg("recommendation served")

	return rec, nil
}

// ToggleFavorite flips the favorite flag in the caller's collection, then asks
// the directory to persist it. When the directory call fails the collection is
// restored to its state before the flip and ErrLoginRequired is returned.
func (s *RecommendationService) ToggleFavorite(ctx context.Context, domain entities.Domain, id int64) error {
	ctx, span := observability.StartSpan(ctx, "RecommendationService.ToggleFavorite")
	defer span.End()
	span.SetAttributes(
		attribute.String("facility.domain", string(domain)),
		attribute.Int64("facility.id", id),
	)
	logger := observability.LoggerFromContext(ctx)

	store, err := s.Store(ctx, domain)
	if err != nil {
		return err
	}

	before, found := store.ToggleFavorite(id)
	if !found {
		return ErrFacilityNotLoaded
	}

	if err := s.directory.ToggleFavorite(ctx, domain, id); err != nil {
		observability.RecordError(span, err)
		observability.RecordFavoriteRollback(ctx, s.metrics, string(domain))
		if !store.Restore(before) {
			logger.Warn().Int64("facility_id", id).Msg("collection replaced during toggle, rollback skipped")
		}
		logger.Warn().Err(err).Int64("facility_id", id).Msg("favorite toggle rejected, rolled back")
		return &apperrors.AppError{
			Type:    ErrLoginRequired.Type,
			Message: ErrLoginRequired.Message,
			Err:     err,
		}
	}

	return nil
}

// Facility returns the current state of one facility in the caller's collection
func (s *RecommendationService) Facility(ctx context.Context, domain entities.Domain, id int64) (entities.Facility, error) {
	store, err := s.Store(ctx, domain)
	if err != nil {
		return entities.Facility{}, err
	}
	f, ok := store.Find(id)
	if !ok {
		return entities.Facility{}, ErrFacilityNotLoaded
	}
	return f, nil
}

// ListWithStatus returns the caller's facilities of filter.Domain annotated with
// their business status and narrowed by category, keyword terms and OpenOnly.
func (s *RecommendationService) ListWithStatus(ctx context.Context, filter entities.ListFilter) ([]entities.FacilityWithStatus, error) {
	store, err := s.Store(ctx, filter.Domain)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(filter.Keyword))
	snapshot := store.Snapshot()
	out := make([]entities.FacilityWithStatus, 0, len(snapshot))
	for _, f := range snapshot {
		if filter.Category != "" && filter.Category != entities.CategoryAll && f.Category != filter.Category {
			continue
		}
		if !matchesAllTerms(f, terms) {
			continue
		}
		status := s.hours.Resolve(f.HoursText)
		if filter.OpenOnly && status.Status != entities.OpenStateOpen {
			continue
		}
		out = append(out, entities.FacilityWithStatus{Facility: f, Status: status})
	}
	return out, nil
}

// Categories returns CategoryAll followed by every distinct category loaded for
// domain, in first-seen order.
func (s *RecommendationService) Categories(ctx context.Context, domain entities.Domain) ([]string, error) {
	store, err := s.Store(ctx, domain)
	if err != nil {
		return nil, err
	}
	set := newOrderedSet()
	set.add(entities.CategoryAll)
	for _, f := range store.Snapshot() {
		if f.Category != "" {
			set.add(f.Category)
		}
	}
	return set.items, nil
}

// matchesAllTerms reports whether every lowercased term occurs in the name,
// menu, category or address, compared case-insensitively.
func matchesAllTerms(f entities.Facility, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{
		f.Name, strings.Join(f.Menu, " "), f.Category, f.Address,
	}, "\n"))
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
