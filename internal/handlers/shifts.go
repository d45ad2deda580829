package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/middleware"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"
)

// ShiftHandler handles shift log HTTP requests.
type ShiftHandler struct {
	sync *services.SyncService
}

// NewShiftHandler creates a new shift handler.
func NewShiftHandler(sync *services.SyncService) *ShiftHandler {
	return &ShiftHandler{sync: sync}
}

// GetShifts handles GET /api/v1/shifts.
func (h *ShiftHandler) GetShifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	shifts := h.sync.Shifts(ctx, id)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"shifts": shifts,
		"total":  len(shifts),
	})
}

// SaveShift handles POST /api/v1/shifts.
func (h *ShiftHandler) SaveShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	var shift models.Shift
	if err := json.NewDecoder(r.Body).Decode(&shift); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if shift.Date == "" {
		respondError(w, "date is required", http.StatusBadRequest)
		return
	}
	switch shift.Type {
	case models.ShiftDay, models.ShiftEvening, models.ShiftNight:
	default:
		respondError(w, "type must be Day, Evening or Night", http.StatusBadRequest)
		return
	}

	saved := h.sync.SaveShift(ctx, id, shift)
	respondJSON(w, http.StatusOK, saved)
}
