package routes

import (
	"net/http"

	"github.com/Hash-621/TEAM202507-01-Final/internal/api/handlers"
	"github.com/Hash-621/TEAM202507-01-Final/internal/api/middleware"
	"github.com/Hash-621/TEAM202507-01-Final/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	facilityHandler       *handlers.FacilityHandler
	recommendationHandler *handlers.RecommendationHandler
	hoursHandler          *handlers.HoursHandler
	geolocationHandler    *handlers.GeolocationHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. geolocationHandler may be nil.
func NewRouter(
	facilityHandler *handlers.FacilityHandler,
	recommendationHandler *handlers.RecommendationHandler,
	hoursHandler *handlers.HoursHandler,
	geolocationHandler *handlers.GeolocationHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                   http.NewServeMux(),
		facilityHandler:       facilityHandler,
		recommendationHandler: recommendationHandler,
		hoursHandler:          hoursHandler,
		geolocationHandler:    geolocationHandler,
		allowedOrigins:        allowedOrigins,
		metrics:               metrics,
	}
}

// SetupRoutes sets up all routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Session and facility endpoints
	r.mux.HandleFunc("POST /api/sessions/{domain}/load", r.facilityHandler.LoadSession)
	r.mux.HandleFunc("GET /api/facilities", r.facilityHandler.ListFacilities)
	r.mux.HandleFunc("GET /api/facilities/categories", r.facilityHandler.Categories)
	r.mux.HandleFunc("POST /api/{domain}/{id}/favorite", r.facilityHandler.ToggleFavorite)

	// Recommendation endpoints
	r.mux.HandleFunc("POST /api/recommendations", r.recommendationHandler.Recommend)

	// Operating hours
	r.mux.HandleFunc("GET /api/hours/status", r.hoursHandler.Status)

	// Geolocation endpoints
	if r.geolocationHandler != nil {
		r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// Observability sits directly above logging so the mux-matched pattern is
	// visible to it and the request log carries the trace id.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CredentialsMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so preflights never reach the handlers
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
