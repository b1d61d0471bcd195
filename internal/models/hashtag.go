package models

// Hashtag represents a tag that can be attached to questions.
type Hashtag struct {
	ID        int    `json:"hashtag_id"`
	Name      string `json:"name"`
	UsedCount int    `json:"used_count"`
}
