package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/middleware"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/models"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxUploadBytes caps one recording upload.
const maxUploadBytes = 256 << 20

// MediaHandler handles media recording HTTP requests. Unlike the synced
// collections, media has no local cache, so these endpoints require an
// established identity and answer 401 without one.
type MediaHandler struct {
	media *services.MediaService
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// GetRecordings handles GET /api/v1/media. An optional type query
// parameter filters to audio or video.
func (h *MediaHandler) GetRecordings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)
	if !id.Established() {
		respondError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var mediaType *models.MediaType
	if t := r.URL.Query().Get("type"); t != "" {
		mt := models.MediaType(t)
		if mt != models.MediaAudio && mt != models.MediaVideo {
			respondError(w, "type must be audio or video", http.StatusBadRequest)
			return
		}
		mediaType = &mt
	}

	recordings, err := h.media.List(ctx, id, mediaType)
	if err != nil {
		log.Error().Err(err).Str("user_id", id.UserID).Msg("Failed to list media recordings")
		respondError(w, "failed to list recordings", http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"recordings": recordings,
		"total":      len(recordings),
	})
}

// Upload handles POST /api/v1/media: a multipart form with the blob under
// "file" plus media_type, title, description and duration_seconds fields.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)
	if !id.Established() {
		respondError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}

	mediaType := models.MediaType(r.FormValue("media_type"))
	if mediaType != models.MediaAudio && mediaType != models.MediaVideo {
		respondError(w, "media_type must be audio or video", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, "failed to read file", http.StatusBadRequest)
		return
	}

	req := services.UploadRequest{
		MediaType: mediaType,
		Data:      data,
	}
	if v := r.FormValue("title"); v != "" {
		req.Title = &v
	}
	if v := r.FormValue("description"); v != "" {
		req.Description = &v
	}
	if v := r.FormValue("duration_seconds"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			req.DurationSeconds = &seconds
		}
	}

	rec, err := h.media.Upload(ctx, id, req)
	if err != nil {
		log.Error().Err(err).Str("user_id", id.UserID).Msg("Failed to upload media")
		respondError(w, "failed to upload recording", http.StatusBadGateway)
		return
	}

	log.Info().
		Str("user_id", id.UserID).
		Str("recording_id", rec.ID).
		Str("media_type", string(rec.MediaType)).
		Msg("Media recording uploaded")
	respondJSON(w, http.StatusCreated, rec)
}

// GetSignedURL handles GET /api/v1/media/{recording_id}/url, returning a
// one-hour playback link.
func (h *MediaHandler) GetSignedURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)
	if !id.Established() {
		respondError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	recordingID := chi.URLParam(r, "recording_id")
	url, err := h.media.SignedURL(ctx, id, recordingID)
	if err != nil {
		log.Error().Err(err).Str("user_id", id.UserID).Str("recording_id", recordingID).
			Msg("Failed to sign media URL")
		respondError(w, "failed to sign URL", http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Delete handles DELETE /api/v1/media/{recording_id}: blob first, then
// metadata row.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentity(ctx)
	if !id.Established() {
		respondError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	recordingID := chi.URLParam(r, "recording_id")
	if err := h.media.Delete(ctx, id, recordingID); err != nil {
		log.Error().Err(err).Str("user_id", id.UserID).Str("recording_id", recordingID).
			Msg("Failed to delete media recording")
		respondError(w, "failed to delete recording", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
