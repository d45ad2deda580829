package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/middleware"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"

	"github.com/go-chi/chi/v5"
)

// ActivityHandler handles self-care catalog HTTP requests.
type ActivityHandler struct {
	sync *services.SyncService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(sync *services.SyncService) *ActivityHandler {
	return &ActivityHandler{sync: sync}
}

// GetActivities handles GET /api/v1/activities. An optional role query
// parameter filters the catalog to entries visible to that role.
func (h *ActivityHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	activities := h.sync.Activities(ctx, id)
	if role := r.URL.Query().Get("role"); role != "" {
		activities = models.ActivitiesForRole(activities, models.Role(role))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"activities": activities,
		"total":      len(activities),
	})
}

// ToggleFavorite handles PUT /api/v1/activities/{activity_id}/favorite.
func (h *ActivityHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	activityID := chi.URLParam(r, "activity_id")
	if activityID == "" {
		respondError(w, "activity_id is required", http.StatusBadRequest)
		return
	}

	var req struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.sync.ToggleFavorite(ctx, id, activityID, req.IsFavorite)
	w.WriteHeader(http.StatusNoContent)
}
