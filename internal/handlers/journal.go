package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/middleware"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"
)

// JournalHandler handles journal HTTP requests.
type JournalHandler struct {
	sync *services.SyncService
}

// NewJournalHandler creates a new journal handler.
func NewJournalHandler(sync *services.SyncService) *JournalHandler {
	return &JournalHandler{sync: sync}
}

// GetEntries handles GET /api/v1/journal.
func (h *JournalHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	entries := h.sync.JournalEntries(ctx, id)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   len(entries),
	})
}

// SaveEntry handles POST /api/v1/journal. Entries are append-only.
func (h *JournalHandler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)

	var entry models.JournalEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if entry.Date == "" {
		respondError(w, "date is required", http.StatusBadRequest)
		return
	}
	if entry.Content == "" {
		respondError(w, "content is required", http.StatusBadRequest)
		return
	}

	saved := h.sync.SaveJournalEntry(ctx, id, entry)
	respondJSON(w, http.StatusOK, saved)
}
