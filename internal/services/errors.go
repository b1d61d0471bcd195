package services

import (
	"errors"
	"fmt"
)

// Sentinel errors used by the auth flows. Handlers map these onto HTTP
// status codes; they are never shown to clients verbatim.
var (
	// ErrDuplicateEmail signals that a registration targeted an email
	// that already has an account.
	ErrDuplicateEmail = errors.New("email is already registered")

	// ErrInvalidCredentials covers unknown email, deactivated account
	// and wrong password alike, so responses do not reveal which
	// condition failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound signals that a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConfiguration signals that a required configuration value is
	// absent, such as the OAuth client id.
	ErrConfiguration = errors.New("required configuration is missing")
)

// UpstreamError wraps a failure from the external identity provider.
// Detail carries the raw response body for server-side diagnostics; it
// must never be echoed back to the end user.
type UpstreamError struct {
	Stage  string
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("identity provider failure at %s (status %d)", e.Stage, e.Status)
}
