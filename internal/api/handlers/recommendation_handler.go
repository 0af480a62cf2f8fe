package handlers

import (
	"encoding/json"
	"net/http"
)

// maxRecommendationBody bounds the symptom request body
const maxRecommendationBody = 16 << 10

// RecommendationHandler serves symptom recommendations
type RecommendationHandler struct {
	service RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// RecommendRequest is the body of POST /api/recommendations
type RecommendRequest struct {
	Symptom string `json:"symptom"`
}

// Recommend handles POST /api/recommendations. Blank symptom text answers 204.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecommendationBody)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.service.Recommend(r.Context(), req.Symptom)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if rec == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondWithJSON(w, http.StatusOK, rec)
}
