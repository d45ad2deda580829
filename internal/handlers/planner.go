package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/middleware"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"

	"github.com/go-chi/chi/v5"
)

// PlannerHandler handles weekly planner (time block) HTTP requests.
type PlannerHandler struct {
	sync *services.SyncService
}

// NewPlannerHandler creates a new planner handler.
func NewPlannerHandler(sync *services.SyncService) *PlannerHandler {
	return &PlannerHandler{sync: sync}
}

// GetTimeBlocks handles GET /api/v1/timeblocks.
func (h *PlannerHandler) GetTimeBlocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	blocks := h.sync.TimeBlocks(ctx, id)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"timeBlocks": blocks,
		"total":      len(blocks),
	})
}

// SaveDay handles PUT /api/v1/timeblocks/{day}: replaces that day's
// blocks wholesale, leaving other days untouched.
func (h *PlannerHandler) SaveDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	day := chi.URLParam(r, "day")
	if day == "" {
		respondError(w, "day is required", http.StatusBadRequest)
		return
	}

	var req struct {
		Blocks []models.TimeBlock `json:"blocks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	for i := range req.Blocks {
		req.Blocks[i].Day = day
		switch req.Blocks[i].Type {
		case models.BlockFixed, models.BlockFocused, models.BlockFlex:
		default:
			respondError(w, "type must be Fixed, Focused or Flex", http.StatusBadRequest)
			return
		}
	}

	saved := h.sync.SaveTimeBlocksForDay(ctx, id, day, req.Blocks)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"timeBlocks": saved,
		"total":      len(saved),
	})
}
