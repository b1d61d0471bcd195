package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/joolapp/jool-backend/internal/models"
	ws "github.com/joolapp/jool-backend/internal/websocket"
)

// QuestionServiceProvider defines the interface for question services.
type QuestionServiceProvider interface {
	GetAllQuestions() ([]models.Question, error)
	GetQuestionByID(id int) (models.Question, error)
	GetQuestionsByUserID(userID int) ([]models.Question, error)
	GetQuestionsByHashtag(name string) ([]models.Question, error)
	CreateQuestion(title, content string, userID int, hashtags []string) (models.Question, error)
	UpdateQuestion(id int, title, content string, hashtags []string) (models.Question, error)
	DeleteQuestion(id int) error
}

// QuestionService provides business logic for question management.
type QuestionService struct {
	db  *sql.DB
	hub *ws.Hub
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(db *sql.DB, hub *ws.Hub) *QuestionService {
	return &QuestionService{db: db, hub: hub}
}

const questionSelect = `
	SELECT q.question_id, q.title, q.content, q.user_id, q.views, q.stars, q.created_at,
	       u.first_name || ' ' || u.last_name
	FROM questions q
	JOIN users u ON u.user_id = q.user_id`

func (s *QuestionService) queryQuestions(where string, args ...interface{}) ([]models.Question, error) {
	rows, err := s.db.Query(questionSelect+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Title, &q.Content, &q.UserID, &q.Views, &q.Stars, &q.CreatedAt, &q.UserName); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range questions {
		tags, err := s.hashtagsForQuestion(questions[i].ID)
		if err != nil {
			return nil, err
		}
		questions[i].Hashtags = tags
	}
	return questions, nil
}

func (s *QuestionService) hashtagsForQuestion(questionID int) ([]models.Hashtag, error) {
	rows, err := s.db.Query(`
		SELECT h.hashtag_id, h.name, h.used_count
		FROM hashtags h
		JOIN question_hashtags qh ON qh.hashtag_id = h.hashtag_id
		WHERE qh.question_id = ?`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Hashtag
	for rows.Next() {
		var h models.Hashtag
		if err := rows.Scan(&h.ID, &h.Name, &h.UsedCount); err != nil {
			return nil, err
		}
		tags = append(tags, h)
	}
	return tags, rows.Err()
}

// GetAllQuestions retrieves all questions, newest first.
func (s *QuestionService) GetAllQuestions() ([]models.Question, error) {
	return s.queryQuestions(" ORDER BY q.created_at DESC")
}

// GetQuestionByID retrieves a single question and increments its view
// counter.
func (s *QuestionService) GetQuestionByID(id int) (models.Question, error) {
	questions, err := s.queryQuestions(" WHERE q.question_id = ?", id)
	if err != nil {
		return models.Question{}, err
	}
	if len(questions) == 0 {
		return models.Question{}, ErrNotFound
	}

	question := questions[0]
	if _, err := s.db.Exec("UPDATE questions SET views = views + 1 WHERE question_id = ?", id); err != nil {
		return models.Question{}, fmt.Errorf("failed to bump view count: %w", err)
	}
	question.Views++
	return question, nil
}

// GetQuestionsByUserID retrieves all questions posted by a user.
func (s *QuestionService) GetQuestionsByUserID(userID int) ([]models.Question, error) {
	return s.queryQuestions(" WHERE q.user_id = ? ORDER BY q.created_at DESC", userID)
}

// GetQuestionsByHashtag retrieves all questions tagged with a hashtag.
func (s *QuestionService) GetQuestionsByHashtag(name string) ([]models.Question, error) {
	return s.queryQuestions(`
		JOIN question_hashtags qh ON qh.question_id = q.question_id
		JOIN hashtags h ON h.hashtag_id = qh.hashtag_id
		WHERE h.name = ?
		ORDER BY q.created_at DESC`, name)
}

// CreateQuestion creates a question with its hashtag associations and
// announces it on the activity feed.
func (s *QuestionService) CreateQuestion(title, content string, userID int, hashtags []string) (models.Question, error) {
	res, err := s.db.Exec(
		"INSERT INTO questions(title, content, user_id, views, stars, created_at) VALUES(?, ?, ?, 0, 0, ?)",
		title, content, userID, time.Now())
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to create question: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Question{}, err
	}

	if err := s.attachHashtags(int(id), hashtags); err != nil {
		return models.Question{}, err
	}

	question, err := s.GetQuestionByID(int(id))
	if err != nil {
		return models.Question{}, err
	}

	s.hub.Publish("question_created", question)
	return question, nil
}

// UpdateQuestion updates a question's title, content and hashtags. The
// previous hashtag associations are dropped and the new set is linked
// with the usual create-or-increment processing.
func (s *QuestionService) UpdateQuestion(id int, title, content string, hashtags []string) (models.Question, error) {
	res, err := s.db.Exec("UPDATE questions SET title = ?, content = ? WHERE question_id = ?", title, content, id)
	if err != nil {
		return models.Question{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Question{}, err
	}
	if affected == 0 {
		return models.Question{}, ErrNotFound
	}

	if _, err := s.db.Exec("DELETE FROM question_hashtags WHERE question_id = ?", id); err != nil {
		return models.Question{}, err
	}
	if err := s.attachHashtags(id, hashtags); err != nil {
		return models.Question{}, err
	}

	return s.GetQuestionByID(id)
}

// DeleteQuestion removes a question; responses and hashtag links go
// with it via cascade.
func (s *QuestionService) DeleteQuestion(id int) error {
	res, err := s.db.Exec("DELETE FROM questions WHERE question_id = ?", id)
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

// attachHashtags links the distinct hashtag names to a question,
// creating missing hashtags and incrementing the usage counter of
// existing ones.
func (s *QuestionService) attachHashtags(questionID int, names []string) error {
	seen := make(map[string]bool)
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var hashtagID int
		err := s.db.QueryRow("SELECT hashtag_id FROM hashtags WHERE name = ?", name).Scan(&hashtagID)
		switch {
		case err == sql.ErrNoRows:
			res, err := s.db.Exec("INSERT INTO hashtags(name, used_count) VALUES(?, 1)", name)
			if err != nil {
				return fmt.Errorf("failed to create hashtag %q: %w", name, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			hashtagID = int(id)
		case err != nil:
			return err
		default:
			if _, err := s.db.Exec("UPDATE hashtags SET used_count = used_count + 1 WHERE hashtag_id = ?", hashtagID); err != nil {
				return err
			}
		}

		if _, err := s.db.Exec("INSERT INTO question_hashtags(question_id, hashtag_id) VALUES(?, ?)", questionID, hashtagID); err != nil {
			return err
		}
	}
	return nil
}
