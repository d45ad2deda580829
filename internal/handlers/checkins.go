package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/middleware"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"
)

// CheckInHandler handles daily check-in HTTP requests.
type CheckInHandler struct {
	sync *services.SyncService
}

// NewCheckInHandler creates a new check-in handler.
func NewCheckInHandler(sync *services.SyncService) *CheckInHandler {
	return &CheckInHandler{sync: sync}
}

// GetCheckIns handles GET /api/v1/checkins.
func (h *CheckInHandler) GetCheckIns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	checkIns := h.sync.CheckIns(ctx, id)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"checkins": checkIns,
		"total":    len(checkIns),
	})
}

// GetTodayCheckIn handles GET /api/v1/checkins/today.
func (h *CheckInHandler) GetTodayCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	checkIn := h.sync.TodayCheckIn(ctx, id)
	if checkIn == nil {
		respondError(w, "no check-in today", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, checkIn)
}

// SaveCheckIn handles POST /api/v1/checkins. A repeat submission for the
// same date overwrites the earlier check-in.
func (h *CheckInHandler) SaveCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	var checkIn models.DailyCheckIn
	if err := json.NewDecoder(r.Body).Decode(&checkIn); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if checkIn.Date == "" {
		respondError(w, "date is required", http.StatusBadRequest)
		return
	}
	for _, scale := range []int{checkIn.Mood, checkIn.Stress, checkIn.Energy} {
		if scale < 1 || scale > 5 {
			respondError(w, "mood, stress and energy must be 1-5", http.StatusBadRequest)
			return
		}
	}
	if checkIn.Gratitude == nil {
		checkIn.Gratitude = []string{}
	}

	saved := h.sync.SaveCheckIn(ctx, id, checkIn)
	respondJSON(w, http.StatusOK, saved)
}
