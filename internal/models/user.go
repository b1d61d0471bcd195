package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           int       `json:"user_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	IsActive     bool      `json:"is_active"`
	Phone        *string   `json:"phone,omitempty"`
	Image        []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile is the client-facing view of a user. The avatar is reduced
// to a presence flag so raw bytes never ride along in auth responses.
type UserProfile struct {
	ID        int     `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	IsActive  bool    `json:"is_active"`
	Phone     *string `json:"phone,omitempty"`
	HasImage  bool    `json:"has_image"`
	Token     *Token  `json:"token,omitempty"`
}

// Profile maps a user to its client-facing view.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsActive:  u.IsActive,
		Phone:     u.Phone,
		HasImage:  len(u.Image) > 0,
	}
}
