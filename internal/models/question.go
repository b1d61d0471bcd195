package models

import "time"

// Question represents a question posted by a user.
type Question struct {
	ID        int       `json:"question_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int       `json:"user_id"`
	Views     int       `json:"views"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"date"`

	// Derived fields populated on read
	UserName string    `json:"user_name,omitempty"`
	Hashtags []Hashtag `json:"hashtags,omitempty"`
}
