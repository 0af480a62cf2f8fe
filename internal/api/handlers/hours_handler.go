package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Hash-621/TEAM202507-01-Final/internal/application/services"
)

// HoursHandler resolves business status for arbitrary hours text
type HoursHandler struct {
	hours *services.BusinessHoursService
}

// NewHoursHandler creates a new hours handler
func NewHoursHandler(hours *services.BusinessHoursService) *HoursHandler {
	return &HoursHandler{hours: hours}
}

// Status handles GET /api/hours/status?text=...&at=RFC3339
func (h *HoursHandler) Status(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var text *string
	if raw := query.Get("text"); strings.TrimSpace(raw) != "" {
		text = &raw
	}

	if at := query.Get("at"); at != "" {
		now, err := time.Parse(time.RFC3339, at)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "at must be RFC3339")
			return
		}
		respondWithJSON(w, http.StatusOK, h.hours.ResolveAt(text, now))
		return
	}

	respondWithJSON(w, http.StatusOK, h.hours.Resolve(text))
}
