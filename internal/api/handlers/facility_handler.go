package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
)

// FacilityHandler handles session loading, listing and favorite toggles
type FacilityHandler struct {
	service RecommendationService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(service RecommendationService) *FacilityHandler {
	return &FacilityHandler{
		service: service,
	}
}

// LoadSession handles POST /api/sessions/{domain}/load
func (h *FacilityHandler) LoadSession(w http.ResponseWriter, r *http.Request) {
	domain, ok := entities.ParseDomain(r.PathValue("domain"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "unknown domain")
		return
	}

	summary, err := h.service.LoadSession(r.Context(), domain)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// ListFacilities handles GET /api/facilities?domain=&category=&keyword=&open=
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	domain, ok := domainParam(query.Get("domain"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "unknown domain")
		return
	}

	filter := entities.ListFilter{
		Domain:   domain,
		Category: strings.TrimSpace(query.Get("category")),
		Keyword:  query.Get("keyword"),
	}
	if raw := query.Get("open"); raw != "" {
		openOnly, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid open parameter")
			return
		}
		filter.OpenOnly = openOnly
	}

	facilities, err := h.service.ListWithStatus(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// Categories handles GET /api/facilities/categories?domain=
func (h *FacilityHandler) Categories(w http.ResponseWriter, r *http.Request) {
	domain, ok := domainParam(r.URL.Query().Get("domain"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "unknown domain")
		return
	}

	categories, err := h.service.Categories(r.Context(), domain)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

// ToggleFavorite handles POST /api/{domain}/{id}/favorite
func (h *FacilityHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	domain, ok := entities.ParseDomain(r.PathValue("domain"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "unknown domain")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid facility id")
		return
	}

	if err := h.service.ToggleFavorite(r.Context(), domain, id); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	facility, err := h.service.Facility(r.Context(), domain, id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":         facility.ID,
		"isFavorite": facility.IsFavorite,
	})
}

// domainParam defaults to hospital when the parameter is absent
func domainParam(raw string) (entities.Domain, bool) {
	if strings.TrimSpace(raw) == "" {
		return entities.DomainHospital, true
	}
	return entities.ParseDomain(raw)
}
