package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int    `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./jool.db"`

	FrontendOrigin string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:3000"`

	JWT       JWT       `envPrefix:"JWT_"`
	Microsoft Microsoft `envPrefix:"MS_"`
}

// JWT holds the token signing configuration. An empty secret is a fatal
// startup condition, enforced by auth.NewTokenManager.
type JWT struct {
	Secret          string `env:"SECRET"`
	Issuer          string `env:"ISSUER" envDefault:"jool-backend"`
	Audience        string `env:"AUDIENCE" envDefault:"jool-frontend"`
	DurationMinutes int    `env:"DURATION_MINUTES" envDefault:"60"`
}

// Microsoft holds the OAuth2 configuration for Microsoft delegated login.
// ClientID/ClientSecret may legitimately be absent in deployments that do
// not enable federation; they are checked at first use, not at startup.
type Microsoft struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURI  string `env:"REDIRECT_URI" envDefault:"http://localhost:8080/auth/microsoft-callback"`
	SuccessURL   string `env:"FRONTEND_SUCCESS_URL" envDefault:"http://localhost:3000/auth/login-success"`
	ErrorURL     string `env:"FRONTEND_ERROR_URL" envDefault:"http://localhost:3000/auth/login-error"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
