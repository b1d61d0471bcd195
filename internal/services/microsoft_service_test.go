package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joolapp/jool-backend/internal/auth"
	"github.com/joolapp/jool-backend/internal/config"
)

type fakeProvider struct {
	server *httptest.Server

	tokenCalls   atomic.Int64
	profileCalls atomic.Int64

	tokenStatus   int
	tokenBody     map[string]string
	profileStatus int
	profileBody   map[string]string
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{
		tokenStatus:   http.StatusOK,
		tokenBody:     map[string]string{"access_token": "provider-token"},
		profileStatus: http.StatusOK,
		profileBody: map[string]string{
			"mail":      "satya@example.com",
			"givenName": "Satya",
			"surname":   "N",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		p.tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.NotEmpty(t, r.PostForm.Get("code"))
		assert.NotEmpty(t, r.PostForm.Get("redirect_uri"))
		w.WriteHeader(p.tokenStatus)
		json.NewEncoder(w).Encode(p.tokenBody)
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		p.profileCalls.Add(1)
		assert.Equal(t, "Bearer provider-token", r.Header.Get("Authorization"))
		w.WriteHeader(p.profileStatus)
		json.NewEncoder(w).Encode(p.profileBody)
	})

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func msTestConfig() config.Microsoft {
	return config.Microsoft{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:8080/auth/microsoft-callback",
		SuccessURL:   "http://localhost:3000/auth/login-success",
		ErrorURL:     "http://localhost:3000/auth/login-error",
	}
}

func newMicrosoftService(t *testing.T, provider *fakeProvider) (*MicrosoftService, *UserService, *auth.StateStore) {
	t.Helper()
	users := NewUserService(newTestDB(t))
	state := auth.NewStateStore(5 * time.Minute)
	svc := NewMicrosoftService(msTestConfig(), users, newTestTokens(t), state)
	if provider != nil {
		svc.tokenEndpoint = provider.server.URL + "/token"
		svc.profileEndpoint = provider.server.URL + "/me"
	}
	return svc, users, state
}

func TestGetAuthorizationURL_NoClientID(t *testing.T) {
	users := NewUserService(newTestDB(t))
	cfg := msTestConfig()
	cfg.ClientID = ""
	svc := NewMicrosoftService(cfg, users, newTestTokens(t), auth.NewStateStore(0))

	_, err := svc.GetAuthorizationURL("session", "")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestGetAuthorizationURL_Params(t *testing.T) {
	svc, _, state := newMicrosoftService(t, nil)

	rawURL, err := svc.GetAuthorizationURL("session", "")
	require.NoError(t, err)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	params := parsed.Query()
	assert.Equal(t, "client-id", params.Get("client_id"))
	assert.Equal(t, "code", params.Get("response_type"))
	assert.Equal(t, "query", params.Get("response_mode"))
	assert.Equal(t, "http://localhost:8080/auth/microsoft-callback", params.Get("redirect_uri"))
	assert.Contains(t, params.Get("scope"), "User.Read")

	// No custom redirect was requested, so nothing is stashed.
	_, ok := state.Take("session")
	assert.False(t, ok)
}

func TestGetAuthorizationURL_StashesCustomRedirect(t *testing.T) {
	svc, _, state := newMicrosoftService(t, nil)

	_, err := svc.GetAuthorizationURL("session", "https://app.example.com/welcome")
	require.NoError(t, err)

	value, ok := state.Take("session")
	assert.True(t, ok)
	assert.Equal(t, "https://app.example.com/welcome", value)
}

func TestHandleCallback_ProvisionsNewUser(t *testing.T) {
	provider := newFakeProvider(t)
	svc, users, _ := newMicrosoftService(t, provider)

	redirect, err := svc.HandleCallback(context.Background(), "session", "auth-code")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(redirect, "http://localhost:3000/auth/login-success#"))

	parsed, err := url.Parse(redirect)
	require.NoError(t, err)

	fragment, err := url.ParseQuery(parsed.Fragment)
	require.NoError(t, err)
	assert.Equal(t, "satya@example.com", fragment.Get("email"))
	assert.Equal(t, "Satya", fragment.Get("first_name"))
	assert.NotEmpty(t, fragment.Get("access_token"))
	assert.NotEmpty(t, fragment.Get("expires_at"))

	// Exactly one local user exists for the provider email, active,
	// with a random (hashed) placeholder password.
	user, err := users.GetUserByEmail("satya@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.Len(t, user.PasswordHash, 64)
	assert.False(t, auth.VerifyPassword("", user.PasswordHash))
}

func TestHandleCallback_ReusesExistingUserWithoutSync(t *testing.T) {
	provider := newFakeProvider(t)
	svc, users, _ := newMicrosoftService(t, provider)

	existing := testUserRecord("satya@example.com")
	existing.FirstName = "LocalFirst"
	existing.LastName = "LocalLast"
	created, err := users.CreateUser(existing)
	require.NoError(t, err)

	redirect, err := svc.HandleCallback(context.Background(), "session", "auth-code")
	require.NoError(t, err)

	parsed, err := url.Parse(redirect)
	require.NoError(t, err)
	fragment, err := url.ParseQuery(parsed.Fragment)
	require.NoError(t, err)

	// Provider names must not clobber local edits.
	assert.Equal(t, "LocalFirst", fragment.Get("first_name"))
	assert.Equal(t, "LocalLast", fragment.Get("last_name"))

	user, err := users.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "LocalFirst", user.FirstName)
}

func TestHandleCallback_CustomRedirectConsumedOnce(t *testing.T) {
	provider := newFakeProvider(t)
	svc, _, _ := newMicrosoftService(t, provider)

	_, err := svc.GetAuthorizationURL("session", "https://app.example.com/welcome")
	require.NoError(t, err)

	first, err := svc.HandleCallback(context.Background(), "session", "code-1")
	require.NoError(t, err)
	assert.Contains(t, first, "https://app.example.com/welcome#")

	// A second completion without a fresh authorization URL falls back
	// to the default success URL.
	second, err := svc.HandleCallback(context.Background(), "session", "code-2")
	require.NoError(t, err)
	assert.Contains(t, second, "http://localhost:3000/auth/login-success#")
}

func TestHandleCallback_ExchangeFailure(t *testing.T) {
	provider := newFakeProvider(t)
	provider.tokenStatus = http.StatusBadRequest
	provider.tokenBody = map[string]string{"error": "invalid_grant"}
	svc, _, _ := newMicrosoftService(t, provider)

	_, err := svc.HandleCallback(context.Background(), "session", "stale-code")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "token_exchange", upstream.Stage)
	assert.Contains(t, upstream.Detail, "invalid_grant")

	// The flow fails before the profile fetch.
	assert.Equal(t, int64(0), provider.profileCalls.Load())
}

func TestHandleCallback_MissingAccessToken(t *testing.T) {
	provider := newFakeProvider(t)
	provider.tokenBody = map[string]string{"token_type": "Bearer"}
	svc, _, _ := newMicrosoftService(t, provider)

	_, err := svc.HandleCallback(context.Background(), "session", "auth-code")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "token_exchange", upstream.Stage)
}

func TestHandleCallback_ProfileWithoutEmail(t *testing.T) {
	provider := newFakeProvider(t)
	provider.profileBody = map[string]string{"givenName": "Satya"}
	svc, users, _ := newMicrosoftService(t, provider)

	_, err := svc.HandleCallback(context.Background(), "session", "auth-code")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "profile_fetch", upstream.Stage)

	_, err = users.GetUserByEmail("satya@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandleCallback_PrincipalNameFallback(t *testing.T) {
	provider := newFakeProvider(t)
	provider.profileBody = map[string]string{
		"userPrincipalName": "satya@corp.example.com",
	}
	svc, users, _ := newMicrosoftService(t, provider)

	_, err := svc.HandleCallback(context.Background(), "session", "auth-code")
	require.NoError(t, err)

	// Email falls back to the principal name; names fall back to the
	// fixed defaults.
	user, err := users.GetUserByEmail("satya@corp.example.com")
	require.NoError(t, err)
	assert.Equal(t, "Usuario", user.FirstName)
	assert.Equal(t, "Microsoft", user.LastName)
}

func TestErrorRedirectURL(t *testing.T) {
	svc, _, _ := newMicrosoftService(t, nil)

	redirect := svc.ErrorRedirectURL("something went wrong")
	assert.Equal(t, "http://localhost:3000/auth/login-error?error=something+went+wrong", redirect)
}
