package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/joolapp/jool-backend/internal/auth"
	"github.com/joolapp/jool-backend/internal/services"
)

const sessionCookieName = "jool_session"

// AuthHandler handles HTTP requests for registration, login and the
// Microsoft federation flow.
type AuthHandler struct {
	authService services.AuthServiceProvider
	msService   services.MicrosoftServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService services.AuthServiceProvider, msService services.MicrosoftServiceProvider) *AuthHandler {
	return &AuthHandler{authService: authService, msService: msService}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.FirstName == "" || payload.LastName == "" || payload.Password == "" ||
		payload.Email == "" || !strings.Contains(payload.Email, "@") {
		writeError(w, http.StatusBadRequest, "first_name, last_name, email and password are required")
		return
	}

	profile, err := h.authService.Register(payload)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "Email is already registered")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	profile, err := h.authService.Login(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Login failed")
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Profile echoes the claims of the authenticated user.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"user_id":    claims.Subject,
		"email":      claims.Email,
		"first_name": claims.FirstName,
		"last_name":  claims.LastName,
	})
}

// Deactivate soft-deletes the authenticated user's account.
func (h *AuthHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid token subject")
		return
	}

	if err := h.authService.Deactivate(userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Int("user_id", userID).Msg("Failed to deactivate user")
		writeError(w, http.StatusInternalServerError, "Failed to deactivate account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sessionID returns the caller's session cookie value, setting a fresh
// cookie when none exists yet.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// LoginMicrosoft returns the provider authorization URL the frontend
// should navigate to. An optional redirect_url query parameter is
// stashed for the end of the round trip.
func (h *AuthHandler) LoginMicrosoft(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)
	customRedirect := r.URL.Query().Get("redirect_url")

	authURL, err := h.msService.GetAuthorizationURL(session, customRedirect)
	if err != nil {
		if errors.Is(err, services.ErrConfiguration) {
			writeError(w, http.StatusBadRequest, "Microsoft login is not configured")
			return
		}
		log.Error().Err(err).Msg("Failed to build authorization URL")
		writeError(w, http.StatusInternalServerError, "Failed to start Microsoft login")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"redirect_url": authURL})
}

// MicrosoftCallback completes the authorization-code round trip. All
// outcomes leave via redirect: success carries the payload in a URL
// fragment, failure carries a message on the error page query string.
func (h *AuthHandler) MicrosoftCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		message := query.Get("error_description")
		if message == "" {
			message = errParam
		}
		log.Warn().Str("error", errParam).Msg("Microsoft callback returned an error")
		http.Redirect(w, r, h.msService.ErrorRedirectURL(message), http.StatusFound)
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Redirect(w, r, h.msService.ErrorRedirectURL("No authorization code received"), http.StatusFound)
		return
	}

	session := sessionID(w, r)
	redirectURL, err := h.msService.HandleCallback(r.Context(), session, code)
	if err != nil {
		// Upstream detail stays in server logs; the user sees a
		// generic message.
		var upstream *services.UpstreamError
		if errors.As(err, &upstream) {
			log.Error().Str("stage", upstream.Stage).Int("status", upstream.Status).
				Str("detail", upstream.Detail).Msg("Microsoft login failed upstream")
		} else {
			log.Error().Err(err).Msg("Microsoft login failed")
		}
		http.Redirect(w, r, h.msService.ErrorRedirectURL("Authentication with Microsoft failed"), http.StatusFound)
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// LoginError surfaces a federation failure message to API clients.
func (h *AuthHandler) LoginError(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("error")
	if message == "" {
		message = "Authentication failed"
	}
	writeError(w, http.StatusBadRequest, message)
}
