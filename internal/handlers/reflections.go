package handlers

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/middleware"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"
)

// ReflectionHandler handles barrier (student) and challenge (RN) HTTP
// requests. The two collections share a shape but keep separate routes
// and category sets.
type ReflectionHandler struct {
	sync *services.SyncService
}

// NewReflectionHandler creates a new reflection handler.
func NewReflectionHandler(sync *services.SyncService) *ReflectionHandler {
	return &ReflectionHandler{sync: sync}
}

// GetBarriers handles GET /api/v1/barriers.
func (h *ReflectionHandler) GetBarriers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	entries := h.sync.Barriers(ctx, id)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"barriers": entries,
		"total":    len(entries),
	})
}

// SaveBarrier handles POST /api/v1/barriers.
func (h *ReflectionHandler) SaveBarrier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	entry, ok := decodeReflection(w, r, models.BarrierCategories)
	if !ok {
		return
	}
	saved := h.sync.SaveBarrier(ctx, id, entry)
	respondJSON(w, http.StatusOK, saved)
}

// GetChallenges handles GET /api/v1/challenges.
func (h *ReflectionHandler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	entries := h.sync.Challenges(ctx, id)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"challenges": entries,
		"total":      len(entries),
	})
}

// SaveChallenge handles POST /api/v1/challenges.
func (h *ReflectionHandler) SaveChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	entry, ok := decodeReflection(w, r, models.ChallengeCategories)
	if !ok {
		return
	}
	saved := h.sync.SaveChallenge(ctx, id, entry)
	respondJSON(w, http.StatusOK, saved)
}

func decodeReflection(w http.ResponseWriter, r *http.Request, categories []string) (models.ReflectionEntry, bool) {
	var entry models.ReflectionEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return entry, false
	}
	if entry.Date == "" || entry.Description == "" {
		respondError(w, "date and description are required", http.StatusBadRequest)
		return entry, false
	}
	if !slices.Contains(categories, entry.Category) {
		respondError(w, "unknown category", http.StatusBadRequest)
		return entry, false
	}
	return entry, true
}
