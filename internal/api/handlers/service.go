package handlers

import (
	"context"

	"github.com/Hash-621/TEAM202507-01-Final/internal/application/services"
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
)

// RecommendationService is the part of the coordinator the HTTP layer uses
type RecommendationService interface {
	LoadSession(ctx context.Context, domain entities.Domain) (*services.SessionSummary, error)
	Recommend(ctx context.Context, text string) (*entities.Recommendation, error)
	ToggleFavorite(ctx context.Context, domain entities.Domain, id int64) error
	Facility(ctx context.Context, domain entities.Domain, id int64) (entities.Facility, error)
	ListWithStatus(ctx context.Context, filter entities.ListFilter) ([]entities.FacilityWithStatus, error)
	Categories(ctx context.Context, domain entities.Domain) ([]string, error)
}

var _ RecommendationService = (*services.RecommendationService)(nil)
