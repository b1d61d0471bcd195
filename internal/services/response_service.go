package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/joolapp/jool-backend/internal/models"
	ws "github.com/joolapp/jool-backend/internal/websocket"
)

// ResponseServiceProvider defines the interface for response services.
type ResponseServiceProvider interface {
	GetAllResponses() ([]models.Response, error)
	GetResponseByID(id int) (models.Response, error)
	GetResponsesByQuestionID(questionID int) ([]models.Response, error)
	CreateResponse(content string, userID, questionID int) (models.Response, error)
	UpdateResponse(id int, content string) (models.Response, error)
	DeleteResponse(id int) error
	LikeResponse(id int) (models.Response, error)
}

// ResponseService provides business logic for response management.
type ResponseService struct {
	db  *sql.DB
	hub *ws.Hub
}

// NewResponseService creates a new ResponseService.
func NewResponseService(db *sql.DB, hub *ws.Hub) *ResponseService {
	return &ResponseService{db: db, hub: hub}
}

const responseSelect = `
	SELECT r.response_id, r.content, r.user_id, r.question_id, r.likes, r.created_at,
	       u.first_name || ' ' || u.last_name
	FROM responses r
	JOIN users u ON u.user_id = r.user_id`

func scanResponse(scanner interface{ Scan(...interface{}) error }) (models.Response, error) {
	var r models.Response
	err := scanner.Scan(&r.ID, &r.Content, &r.UserID, &r.QuestionID, &r.Likes, &r.CreatedAt, &r.UserName)
	return r, err
}

// GetAllResponses retrieves all responses.
func (s *ResponseService) GetAllResponses() ([]models.Response, error) {
	return s.queryResponses("")
}

// GetResponsesByQuestionID retrieves all responses to a question.
func (s *ResponseService) GetResponsesByQuestionID(questionID int) ([]models.Response, error) {
	return s.queryResponses(" WHERE r.question_id = ?", questionID)
}

func (s *ResponseService) queryResponses(where string, args ...interface{}) ([]models.Response, error) {
	rows, err := s.db.Query(responseSelect+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []models.Response
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// GetResponseByID retrieves a single response.
func (s *ResponseService) GetResponseByID(id int) (models.Response, error) {
	r, err := scanResponse(s.db.QueryRow(responseSelect+" WHERE r.response_id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Response{}, ErrNotFound
		}
		return models.Response{}, err
	}
	return r, nil
}

// CreateResponse posts a response to a question and announces it on the
// activity feed. The question and the author must both exist.
func (s *ResponseService) CreateResponse(content string, userID, questionID int) (models.Response, error) {
	var exists int
	if err := s.db.QueryRow("SELECT 1 FROM questions WHERE question_id = ?", questionID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return models.Response{}, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
		}
		return models.Response{}, err
	}
	if err := s.db.QueryRow("SELECT 1 FROM users WHERE user_id = ?", userID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return models.Response{}, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return models.Response{}, err
	}

	res, err := s.db.Exec(
		"INSERT INTO responses(content, user_id, question_id, likes, created_at) VALUES(?, ?, ?, 0, ?)",
		content, userID, questionID, time.Now())
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to create response: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Response{}, err
	}

	response, err := s.GetResponseByID(int(id))
	if err != nil {
		return models.Response{}, err
	}

	s.hub.Publish("response_created", response)
	return response, nil
}

// UpdateResponse replaces the content of a response.
func (s *ResponseService) UpdateResponse(id int, content string) (models.Response, error) {
	res, err := s.db.Exec("UPDATE responses SET content = ? WHERE response_id = ?", content, id)
	if err != nil {
		return models.Response{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Response{}, err
	}
	if affected == 0 {
		return models.Response{}, ErrNotFound
	}
	return s.GetResponseByID(id)
}

// DeleteResponse removes a response.
func (s *ResponseService) DeleteResponse(id int) error {
	res, err := s.db.Exec("DELETE FROM responses WHERE response_id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// LikeResponse increments the like counter of a response and announces
// it on the activity feed.
func (s *ResponseService) LikeResponse(id int) (models.Response, error) {
	res, err := s.db.Exec("UPDATE responses SET likes = likes + 1 WHERE response_id = ?", id)
	if err != nil {
		return models.Response{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Response{}, err
	}
	if affected == 0 {
		return models.Response{}, ErrNotFound
	}

	response, err := s.GetResponseByID(id)
	if err != nil {
		return models.Response{}, err
	}

	s.hub.Publish("response_liked", response)
	return response, nil
}
