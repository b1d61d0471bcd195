package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/joolapp/jool-backend/internal/services"
)

// ResponseHandler handles HTTP requests for response management.
type ResponseHandler struct {
	service services.ResponseServiceProvider
}

// NewResponseHandler creates a new ResponseHandler.
func NewResponseHandler(service services.ResponseServiceProvider) *ResponseHandler {
	return &ResponseHandler{service: service}
}

// ResponsePayload defines the structure for create/update requests.
type ResponsePayload struct {
	Content    string `json:"content"`
	UserID     int    `json:"user_id"`
	QuestionID int    `json:"question_id"`
}

// GetAll handles listing all responses.
func (h *ResponseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	responses, err := h.service.GetAllResponses()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list responses")
		writeError(w, http.StatusInternalServerError, "Failed to list responses")
		return
	}
	if len(responses) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

// Get handles retrieving a single response by ID.
func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid response id")
		return
	}

	response, err := h.service.GetResponseByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Response not found")
			return
		}
		log.Error().Err(err).Int("response_id", id).Msg("Failed to get response")
		writeError(w, http.StatusInternalServerError, "Failed to get response")
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// GetByQuestion handles listing all responses to a question.
func (h *ResponseHandler) GetByQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := idParam(r, "questionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question id")
		return
	}

	responses, err := h.service.GetResponsesByQuestionID(questionID)
	if err != nil {
		log.Error().Err(err).Int("question_id", questionID).Msg("Failed to list responses")
		writeError(w, http.StatusInternalServerError, "Failed to list responses")
		return
	}
	if len(responses) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

// Create handles posting a new response.
func (h *ResponseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ResponsePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Content == "" || payload.UserID == 0 || payload.QuestionID == 0 {
		writeError(w, http.StatusBadRequest, "content, user_id and question_id are required")
		return
	}

	response, err := h.service.CreateResponse(payload.Content, payload.UserID, payload.QuestionID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Question or user does not exist")
			return
		}
		log.Error().Err(err).Msg("Failed to create response")
		writeError(w, http.StatusInternalServerError, "Failed to create response")
		return
	}
	writeJSON(w, http.StatusCreated, response)
}

// Update handles editing a response.
func (h *ResponseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid response id")
		return
	}

	var payload ResponsePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	response, err := h.service.UpdateResponse(id, payload.Content)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Response not found")
			return
		}
		log.Error().Err(err).Int("response_id", id).Msg("Failed to update response")
		writeError(w, http.StatusInternalServerError, "Failed to update response")
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// Delete handles removing a response.
func (h *ResponseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid response id")
		return
	}

	if err := h.service.DeleteResponse(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Response not found")
			return
		}
		log.Error().Err(err).Int("response_id", id).Msg("Failed to delete response")
		writeError(w, http.StatusInternalServerError, "Failed to delete response")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Like handles incrementing the like counter of a response.
func (h *ResponseHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid response id")
		return
	}

	response, err := h.service.LikeResponse(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Response not found")
			return
		}
		log.Error().Err(err).Int("response_id", id).Msg("Failed to like response")
		writeError(w, http.StatusInternalServerError, "Failed to like response")
		return
	}
	writeJSON(w, http.StatusOK, response)
}
