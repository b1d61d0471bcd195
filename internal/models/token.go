package models

import "time"

// Token is a signed bearer token and its absolute expiry instant. Tokens
// are never persisted; they are derived from a User at issuance time.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
