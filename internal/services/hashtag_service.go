package services

import (
	"database/sql"
	"fmt"

	"github.com/joolapp/jool-backend/internal/models"
)

// HashtagServiceProvider defines the interface for hashtag services.
type HashtagServiceProvider interface {
	GetAllHashtags() ([]models.Hashtag, error)
	GetHashtagByID(id int) (models.Hashtag, error)
	CreateHashtag(name string) (models.Hashtag, error)
	UpdateHashtag(id int, name string) (models.Hashtag, error)
	DeleteHashtag(id int) error
	ReconcileUsageCounts() error
}

// HashtagService provides business logic for hashtag management.
type HashtagService struct {
	db *sql.DB
}

// NewHashtagService creates a new HashtagService.
func NewHashtagService(db *sql.DB) *HashtagService {
	return &HashtagService{db: db}
}

// GetAllHashtags retrieves all hashtags.
func (s *HashtagService) GetAllHashtags() ([]models.Hashtag, error) {
	rows, err := s.db.Query("SELECT hashtag_id, name, used_count FROM hashtags ORDER BY used_count DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashtags []models.Hashtag
	for rows.Next() {
		var h models.Hashtag
		if err := rows.Scan(&h.ID, &h.Name, &h.UsedCount); err != nil {
			return nil, err
		}
		hashtags = append(hashtags, h)
	}
	return hashtags, rows.Err()
}

// GetHashtagByID retrieves a single hashtag.
func (s *HashtagService) GetHashtagByID(id int) (models.Hashtag, error) {
	var h models.Hashtag
	err := s.db.QueryRow("SELECT hashtag_id, name, used_count FROM hashtags WHERE hashtag_id = ?", id).
		Scan(&h.ID, &h.Name, &h.UsedCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Hashtag{}, ErrNotFound
		}
		return models.Hashtag{}, err
	}
	return h, nil
}

// CreateHashtag creates a standalone hashtag with an initial usage
// count of one.
func (s *HashtagService) CreateHashtag(name string) (models.Hashtag, error) {
	res, err := s.db.Exec("INSERT INTO hashtags(name, used_count) VALUES(?, 1)", name)
	if err != nil {
		return models.Hashtag{}, fmt.Errorf("failed to create hashtag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Hashtag{}, err
	}
	return models.Hashtag{ID: int(id), Name: name, UsedCount: 1}, nil
}

// UpdateHashtag renames a hashtag.
func (s *HashtagService) UpdateHashtag(id int, name string) (models.Hashtag, error) {
	res, err := s.db.Exec("UPDATE hashtags SET name = ? WHERE hashtag_id = ?", name, id)
	if err != nil {
		return models.Hashtag{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Hashtag{}, err
	}
	if affected == 0 {
		return models.Hashtag{}, ErrNotFound
	}
	return s.GetHashtagByID(id)
}

// DeleteHashtag removes a hashtag and its question links.
func (s *HashtagService) DeleteHashtag(id int) error {
	res, err := s.db.Exec("DELETE FROM hashtags WHERE hashtag_id = ?", id)
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

// ReconcileUsageCounts realigns used_count with the actual number of
// question links. Counters drift when questions are deleted, since the
// cascade removes links without decrementing.
func (s *HashtagService) ReconcileUsageCounts() error {
	_, err := s.db.Exec(`
		UPDATE hashtags SET used_count = (
			SELECT COUNT(*) FROM question_hashtags qh
			WHERE qh.hashtag_id = hashtags.hashtag_id
		)`)
	return err
}
