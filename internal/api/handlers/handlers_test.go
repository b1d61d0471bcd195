package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joolapp/jool-backend/internal/api"
	"github.com/joolapp/jool-backend/internal/auth"
	"github.com/joolapp/jool-backend/internal/config"
	"github.com/joolapp/jool-backend/internal/database"
	"github.com/joolapp/jool-backend/internal/models"
	"github.com/joolapp/jool-backend/internal/services"
	ws "github.com/joolapp/jool-backend/internal/websocket"
)

// newTestServer wires the full router against a fresh in-memory database.
// Microsoft federation is left unconfigured except for the redirect pages,
// which is enough to exercise the error paths end to end.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenManager(config.JWT{
		Secret:          "test-secret-test-secret-test-secret!",
		Issuer:          "jool-backend",
		Audience:        "jool-frontend",
		DurationMinutes: 30,
	})
	require.NoError(t, err)

	hub := ws.NewHub()
	go hub.Run()

	state := auth.NewStateStore(5 * time.Minute)
	users := services.NewUserService(db)
	msCfg := config.Microsoft{
		SuccessURL: "http://localhost:3000/auth/login-success",
		ErrorURL:   "http://localhost:3000/auth/login-error",
	}

	router := api.NewRouter(
		"http://localhost:3000",
		tokens,
		hub,
		services.NewAuthService(users, tokens),
		services.NewMicrosoftService(msCfg, users, tokens, state),
		services.NewQuestionService(db, hub),
		services.NewResponseService(db, hub),
		services.NewHashtagService(db),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// noRedirectClient returns a client that surfaces 302 responses instead
// of following them.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// registerUser creates an account through the API and returns the profile
// with its freshly issued token.
func registerUser(t *testing.T, server *httptest.Server, email string) models.UserProfile {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/auth/register", "", services.RegisterInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     email,
		Password:  "hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var profile models.UserProfile
	decodeInto(t, resp, &profile)
	require.NotNil(t, profile.Token)
	return profile
}
