package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/joolapp/jool-backend/internal/services"
)

// HashtagHandler handles HTTP requests for hashtag management.
type HashtagHandler struct {
	service services.HashtagServiceProvider
}

// NewHashtagHandler creates a new HashtagHandler.
func NewHashtagHandler(service services.HashtagServiceProvider) *HashtagHandler {
	return &HashtagHandler{service: service}
}

// HashtagPayload defines the structure for create/update requests.
type HashtagPayload struct {
	Name string `json:"name"`
}

// GetAll handles listing all hashtags.
func (h *HashtagHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	hashtags, err := h.service.GetAllHashtags()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list hashtags")
		writeError(w, http.StatusInternalServerError, "Failed to list hashtags")
		return
	}
	if len(hashtags) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, hashtags)
}

// Get handles retrieving a single hashtag by ID.
func (h *HashtagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hashtag id")
		return
	}

	hashtag, err := h.service.GetHashtagByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hashtag not found")
			return
		}
		log.Error().Err(err).Int("hashtag_id", id).Msg("Failed to get hashtag")
		writeError(w, http.StatusInternalServerError, "Failed to get hashtag")
		return
	}
	writeJSON(w, http.StatusOK, hashtag)
}

// Create handles creating a standalone hashtag.
func (h *HashtagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload HashtagPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	hashtag, err := h.service.CreateHashtag(payload.Name)
	if err != nil {
		log.Error().Err(err).Str("name", payload.Name).Msg("Failed to create hashtag")
		writeError(w, http.StatusInternalServerError, "Failed to create hashtag")
		return
	}
	writeJSON(w, http.StatusCreated, hashtag)
}

// Update handles renaming a hashtag.
func (h *HashtagHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hashtag id")
		return
	}

	var payload HashtagPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	hashtag, err := h.service.UpdateHashtag(id, payload.Name)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hashtag not found")
			return
		}
		log.Error().Err(err).Int("hashtag_id", id).Msg("Failed to update hashtag")
		writeError(w, http.StatusInternalServerError, "Failed to update hashtag")
		return
	}
	writeJSON(w, http.StatusOK, hashtag)
}

// Delete handles removing a hashtag.
func (h *HashtagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hashtag id")
		return
	}

	if err := h.service.DeleteHashtag(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hashtag not found")
			return
		}
		log.Error().Err(err).Int("hashtag_id", id).Msg("Failed to delete hashtag")
		writeError(w, http.StatusInternalServerError, "Failed to delete hashtag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
