package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/joolapp/jool-backend/internal/services"
)

// QuestionHandler handles HTTP requests for question management.
type QuestionHandler struct {
	service services.QuestionServiceProvider
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(service services.QuestionServiceProvider) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// QuestionPayload defines the structure for create/update requests.
type QuestionPayload struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	UserID   int      `json:"user_id"`
	Hashtags []string `json:"hashtags"`
}

func idParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}

// GetAll handles listing all questions.
func (h *QuestionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.GetAllQuestions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list questions")
		writeError(w, http.StatusInternalServerError, "Failed to list questions")
		return
	}
	if len(questions) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// Get handles retrieving a single question by ID.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question id")
		return
	}

	question, err := h.service.GetQuestionByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Question not found")
			return
		}
		log.Error().Err(err).Int("question_id", id).Msg("Failed to get question")
		writeError(w, http.StatusInternalServerError, "Failed to get question")
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// GetByUser handles listing the questions posted by a user.
func (h *QuestionHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	questions, err := h.service.GetQuestionsByUserID(userID)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("Failed to list questions by user")
		writeError(w, http.StatusInternalServerError, "Failed to list questions")
		return
	}
	if len(questions) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// GetByHashtag handles listing the questions carrying a hashtag.
func (h *QuestionHandler) GetByHashtag(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	questions, err := h.service.GetQuestionsByHashtag(name)
	if err != nil {
		log.Error().Err(err).Str("hashtag", name).Msg("Failed to list questions by hashtag")
		writeError(w, http.StatusInternalServerError, "Failed to list questions")
		return
	}
	if len(questions) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// Create handles posting a new question.
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload QuestionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Title == "" || payload.Content == "" || payload.UserID == 0 {
		writeError(w, http.StatusBadRequest, "title, content and user_id are required")
		return
	}

	question, err := h.service.CreateQuestion(payload.Title, payload.Content, payload.UserID, payload.Hashtags)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create question")
		writeError(w, http.StatusInternalServerError, "Failed to create question")
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

// Update handles editing a question.
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question id")
		return
	}

	var payload QuestionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	question, err := h.service.UpdateQuestion(id, payload.Title, payload.Content, payload.Hashtags)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Question not found")
			return
		}
		log.Error().Err(err).Int("question_id", id).Msg("Failed to update question")
		writeError(w, http.StatusInternalServerError, "Failed to update question")
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// Delete handles removing a question.
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question id")
		return
	}

	if err := h.service.DeleteQuestion(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Question not found")
			return
		}
		log.Error().Err(err).Int("question_id", id).Msg("Failed to delete question")
		writeError(w, http.StatusInternalServerError, "Failed to delete question")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
