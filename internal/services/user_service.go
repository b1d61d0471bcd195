package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/joolapp/jool-backend/internal/models"
)

// UserServiceProvider defines the user directory interface consumed by
// the auth flows.
type UserServiceProvider interface {
	GetUserByID(id int) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	CreateUser(user models.User) (models.User, error)
	DeactivateUser(id int) error
}

// UserService provides persistence-backed lookup and creation of users.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var phone sql.NullString
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.PasswordHash, &user.IsActive, &phone, &user.Image, &user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	if phone.Valid {
		user.Phone = &phone.String
	}
	return user, nil
}

const userColumns = "user_id, first_name, last_name, email, password_hash, is_active, phone, image, created_at"

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE user_id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the
// password hash. Email matching is case-sensitive.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser inserts a new user row. The password hash must already be
// computed by the caller. A unique-constraint violation on email
// surfaces as a generic creation failure.
func (s *UserService) CreateUser(user models.User) (models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	stmt, err := s.db.Prepare("INSERT INTO users(first_name, last_name, email, password_hash, is_active, phone, image, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(user.FirstName, user.LastName, user.Email,
		user.PasswordHash, user.IsActive, user.Phone, user.Image, user.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

// DeactivateUser soft-deletes a user by clearing the active flag.
// Accounts are never hard-deleted.
func (s *UserService) DeactivateUser(id int) error {
	res, err := s.db.Exec("UPDATE users SET is_active = 0 WHERE user_id = ?", id)
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
