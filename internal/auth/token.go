package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/joolapp/jool-backend/internal/config"
	"github.com/joolapp/jool-backend/internal/models"
)

// ErrNoSigningSecret is returned when the token manager is constructed
// without a signing secret. Callers must treat this as fatal at startup.
var ErrNoSigningSecret = errors.New("jwt signing secret is not configured")

// Claims defines the JWT claims structure embedded in issued tokens.
type Claims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}

// UserID returns the numeric user id carried in the subject claim.
func (c *Claims) UserID() (int, error) {
	return strconv.Atoi(c.Subject)
}

// TokenManager issues and validates bearer tokens for user accounts.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	duration time.Duration
}

// NewTokenManager creates a TokenManager from the JWT configuration.
func NewTokenManager(cfg config.JWT) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSigningSecret
	}
	return &TokenManager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		duration: time.Duration(cfg.DurationMinutes) * time.Minute,
	}, nil
}

// Generate creates a signed token for the given user.
func (tm *TokenManager) Generate(user models.User) (models.Token, error) {
	now := time.Now()
	expiresAt := now.Add(tm.duration)

	claims := &Claims{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return models.Token{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return models.Token{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

// Validate parses and validates a token string, checking signature,
// issuer, audience and expiry with zero clock-skew tolerance.
func (tm *TokenManager) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	},
		jwt.WithIssuer(tm.issuer),
		jwt.WithAudience(tm.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
