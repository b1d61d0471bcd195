package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joolapp/jool-backend/internal/auth"
	"github.com/joolapp/jool-backend/internal/config"
	"github.com/joolapp/jool-backend/internal/database"
	"github.com/joolapp/jool-backend/internal/models"
	ws "github.com/joolapp/jool-backend/internal/websocket"
)

// newTestDB opens a fresh in-memory database with the schema applied.
// The pool is pinned to one connection so every query sees the same
// in-memory instance.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { db.Close() })
	return db
}

// newTestHub returns a running hub so publish calls do not block.
func newTestHub(t *testing.T) *ws.Hub {
	t.Helper()
	hub := ws.NewHub()
	go hub.Run()
	return hub
}

func newTestTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(config.JWT{
		Secret:          "test-secret-test-secret-test-secret!",
		Issuer:          "jool-backend",
		Audience:        "jool-frontend",
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	return tm
}

func seedUser(t *testing.T, users *UserService, email string) int {
	t.Helper()
	user, err := users.CreateUser(testUserRecord(email))
	require.NoError(t, err)
	return user.ID
}

func testUserRecord(email string) models.User {
	return models.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: auth.HashPassword("s3cret"),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
}
