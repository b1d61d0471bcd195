package models

import "time"

// Response represents an answer to a question.
type Response struct {
	ID         int       `json:"response_id"`
	Content    string    `json:"content"`
	UserID     int       `json:"user_id"`
	QuestionID int       `json:"question_id"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"date"`

	// Derived field populated on read
	UserName string `json:"user_name,omitempty"`
}
