package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joolapp/jool-backend/internal/api"
	"github.com/joolapp/jool-backend/internal/auth"
	"github.com/joolapp/jool-backend/internal/config"
	"github.com/joolapp/jool-backend/internal/database"
	"github.com/joolapp/jool-backend/internal/logger"
	"github.com/joolapp/jool-backend/internal/monitoring"
	"github.com/joolapp/jool-backend/internal/services"
	"github.com/joolapp/jool-backend/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// An unusable signing secret must stop the process, not fail per
	// request.
	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	state := auth.NewStateStore(15 * time.Minute)
	userService := services.NewUserService(db)
	authService := services.NewAuthService(userService, tokens)
	msService := services.NewMicrosoftService(cfg.Microsoft, userService, tokens, state)
	questionService := services.NewQuestionService(db, hub)
	responseService := services.NewResponseService(db, hub)
	hashtagService := services.NewHashtagService(db)

	// Set up and run the background maintenance scheduler
	maintenance := monitoring.NewMaintenance(state, hashtagService)
	maintenance.Run()

	// Set up router
	router := api.NewRouter(cfg.FrontendOrigin, tokens, hub,
		authService, msService, questionService, responseService, hashtagService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	maintenance.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
