package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/middleware"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"
)

// ProfileHandler handles profile HTTP requests.
type ProfileHandler struct {
	sync *services.SyncService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(sync *services.SyncService) *ProfileHandler {
	return &ProfileHandler{sync: sync}
}

// GetProfile handles GET /api/v1/profile. Responds 404 only when no
// profile exists in either store (onboarding has not completed).
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	profile := h.sync.Profile(ctx, id)
	if profile == nil {
		respondError(w, "no profile", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// SaveProfile handles PUT /api/v1/profile.
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if profile.FirstName == "" {
		respondError(w, "firstName is required", http.StatusBadRequest)
		return
	}
	if profile.Role != models.RoleStudent && profile.Role != models.RoleRN {
		respondError(w, "role must be student or rn", http.StatusBadRequest)
		return
	}

	h.sync.SaveProfile(ctx, id, profile)
	respondJSON(w, http.StatusOK, profile)
}

// ResetProfile handles DELETE /api/v1/profile: the reset-role action.
// Clears all local collections and the remote profile row.
func (h *ProfileHandler) ResetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	h.sync.ResetProfile(ctx, id)
	w.WriteHeader(http.StatusNoContent)
}
