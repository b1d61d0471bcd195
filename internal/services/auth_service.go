package services

import (
	"errors"
	"fmt"

	"github.com/joolapp/jool-backend/internal/auth"
	"github.com/joolapp/jool-backend/internal/models"
)

// AuthServiceProvider defines the interface for local authentication.
type AuthServiceProvider interface {
	Register(input RegisterInput) (models.UserProfile, error)
	Login(email, password string) (models.UserProfile, error)
	Deactivate(userID int) error
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Phone     *string `json:"phone,omitempty"`
}

// AuthService orchestrates register and login against the user
// directory and the token manager.
type AuthService struct {
	users  UserServiceProvider
	tokens *auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserServiceProvider, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new account and returns the profile with a fresh
// token. The email lookup is an early exit only; the unique constraint
// on users.email is the real guard against concurrent registrations.
func (s *AuthService) Register(input RegisterInput) (models.UserProfile, error) {
	_, err := s.users.GetUserByEmail(input.Email)
	if err == nil {
		return models.UserProfile{}, ErrDuplicateEmail
	}
	if !errors.Is(err, ErrNotFound) {
		return models.UserProfile{}, fmt.Errorf("failed to check email: %w", err)
	}

	user := models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: auth.HashPassword(input.Password),
		IsActive:     true,
		Phone:        input.Phone,
	}

	created, err := s.users.CreateUser(user)
	if err != nil {
		return models.UserProfile{}, err
	}

	return s.profileWithToken(created)
}

// Login authenticates a user by email and password. Unknown email,
// deactivated account and wrong password all fail with
// ErrInvalidCredentials to prevent account enumeration.
func (s *AuthService) Login(email, password string) (models.UserProfile, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.UserProfile{}, ErrInvalidCredentials
		}
		return models.UserProfile{}, err
	}
	if !user.IsActive {
		return models.UserProfile{}, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return models.UserProfile{}, ErrInvalidCredentials
	}

	return s.profileWithToken(user)
}

// Deactivate soft-deletes the account of the given user.
func (s *AuthService) Deactivate(userID int) error {
	return s.users.DeactivateUser(userID)
}

func (s *AuthService) profileWithToken(user models.User) (models.UserProfile, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to issue token: %w", err)
	}
	profile := user.Profile()
	profile.Token = &token
	return profile, nil
}
