package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joolapp/jool-backend/internal/auth"
	"github.com/joolapp/jool-backend/internal/config"
	"github.com/joolapp/jool-backend/internal/models"
)

// MicrosoftServiceProvider defines the interface for the Microsoft
// delegated login flow.
type MicrosoftServiceProvider interface {
	GetAuthorizationURL(sessionID, customRedirect string) (string, error)
	HandleCallback(ctx context.Context, sessionID, code string) (string, error)
	ErrorRedirectURL(message string) string
}

// Default Microsoft identity platform endpoints (common tenant).
const (
	msAuthorizeEndpoint = "https://login.microsoftonline.com/common/oauth2/v2.0/authorize"
	msTokenEndpoint     = "https://login.microsoftonline.com/common/oauth2/v2.0/token"
	msProfileEndpoint   = "https://graph.microsoft.com/v1.0/me"

	msScope = "openid profile email User.Read"
)

// Fallback names used when the provider profile omits them.
const (
	fallbackFirstName = "Usuario"
	fallbackLastName  = "Microsoft"
)

// MicrosoftService runs the authorization-code exchange against the
// Microsoft identity platform and provisions local accounts on first
// login.
type MicrosoftService struct {
	cfg    config.Microsoft
	users  UserServiceProvider
	tokens *auth.TokenManager
	state  *auth.StateStore
	client *http.Client

	authorizeEndpoint string
	tokenEndpoint     string
	profileEndpoint   string
}

// NewMicrosoftService creates a new MicrosoftService.
func NewMicrosoftService(cfg config.Microsoft, users UserServiceProvider, tokens *auth.TokenManager, state *auth.StateStore) *MicrosoftService {
	return &MicrosoftService{
		cfg:               cfg,
		users:             users,
		tokens:            tokens,
		state:             state,
		client:            &http.Client{Timeout: 10 * time.Second},
		authorizeEndpoint: msAuthorizeEndpoint,
		tokenEndpoint:     msTokenEndpoint,
		profileEndpoint:   msProfileEndpoint,
	}
}

// GetAuthorizationURL builds the provider authorization URL the frontend
// should navigate to. A custom post-login redirect, when requested, is
// stashed in the session state store until the round trip completes.
func (s *MicrosoftService) GetAuthorizationURL(sessionID, customRedirect string) (string, error) {
	if s.cfg.ClientID == "" {
		return "", fmt.Errorf("%w: microsoft client id", ErrConfiguration)
	}

	if customRedirect != "" {
		s.state.Put(sessionID, customRedirect)
	}

	params := url.Values{}
	params.Set("client_id", s.cfg.ClientID)
	params.Set("response_type", "code")
	params.Set("response_mode", "query")
	params.Set("redirect_uri", s.cfg.RedirectURI)
	params.Set("scope", msScope)

	return s.authorizeEndpoint + "?" + params.Encode(), nil
}

// HandleCallback drives the flow from a received authorization code to
// the final frontend redirect: code exchange, profile fetch, user
// resolution and local token issuance. The returned URL carries the
// profile and token in the fragment so the payload never reaches server
// logs.
func (s *MicrosoftService) HandleCallback(ctx context.Context, sessionID, code string) (string, error) {
	accessToken, err := s.exchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	profile, err := s.fetchProfile(ctx, accessToken)
	if err != nil {
		return "", err
	}

	user, err := s.resolveUser(profile)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	successURL := s.cfg.SuccessURL
	if custom, ok := s.state.Take(sessionID); ok {
		successURL = custom
	}

	fragment := url.Values{}
	fragment.Set("user_id", strconv.Itoa(user.ID))
	fragment.Set("email", user.Email)
	fragment.Set("first_name", user.FirstName)
	fragment.Set("last_name", user.LastName)
	fragment.Set("access_token", token.AccessToken)
	fragment.Set("expires_at", token.ExpiresAt.Format(time.RFC3339))

	return successURL + "#" + fragment.Encode(), nil
}

// ErrorRedirectURL builds the frontend error redirect carrying a
// URL-encoded message.
func (s *MicrosoftService) ErrorRedirectURL(message string) string {
	return s.cfg.ErrorURL + "?error=" + url.QueryEscape(message)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// exchangeCode trades the single-use authorization code for a provider
// access token. The redirect URI must exactly match the one used in the
// authorization request.
func (s *MicrosoftService) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", s.cfg.RedirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Stage: "token_exchange", Status: resp.StatusCode, Detail: string(body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return "", &UpstreamError{Stage: "token_exchange", Status: resp.StatusCode, Detail: string(body)}
	}

	return tok.AccessToken, nil
}

type graphProfile struct {
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	GivenName         string `json:"givenName"`
	Surname           string `json:"surname"`
}

// fetchProfile retrieves the signed-in user's profile from the Graph
// "me" endpoint. Email prefers the verified mail field and falls back
// to the principal name.
func (s *MicrosoftService) fetchProfile(ctx context.Context, accessToken string) (graphProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.profileEndpoint, nil)
	if err != nil {
		return graphProfile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return graphProfile{}, fmt.Errorf("profile endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return graphProfile{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return graphProfile{}, &UpstreamError{Stage: "profile_fetch", Status: resp.StatusCode, Detail: string(body)}
	}

	var profile graphProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return graphProfile{}, &UpstreamError{Stage: "profile_fetch", Status: resp.StatusCode, Detail: string(body)}
	}

	if profile.Mail == "" {
		profile.Mail = profile.UserPrincipalName
	}
	if profile.Mail == "" {
		return graphProfile{}, &UpstreamError{Stage: "profile_fetch", Status: resp.StatusCode, Detail: "profile contains no email"}
	}
	if profile.GivenName == "" {
		profile.GivenName = fallbackFirstName
	}
	if profile.Surname == "" {
		profile.Surname = fallbackLastName
	}

	return profile, nil
}

// resolveUser maps a provider profile onto a local account, creating one
// on first login. Names of an existing account are left untouched so
// local edits are not clobbered by the provider.
func (s *MicrosoftService) resolveUser(profile graphProfile) (models.User, error) {
	user, err := s.users.GetUserByEmail(profile.Mail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	log.Info().Str("email", profile.Mail).Msg("Provisioning new user from Microsoft login")

	newUser := models.User{
		FirstName:    profile.GivenName,
		LastName:     profile.Surname,
		Email:        profile.Mail,
		PasswordHash: auth.HashPassword(auth.GenerateRandomPassword()),
		IsActive:     true,
	}
	return s.users.CreateUser(newUser)
}
