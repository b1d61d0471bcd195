package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/joolapp/jool-backend/internal/api/handlers"
	"github.com/joolapp/jool-backend/internal/auth"
	"github.com/joolapp/jool-backend/internal/services"
	"github.com/joolapp/jool-backend/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	frontendOrigin string,
	tokens *auth.TokenManager,
	hub *websocket.Hub,
	authService services.AuthServiceProvider,
	msService services.MicrosoftServiceProvider,
	questionService services.QuestionServiceProvider,
	responseService services.ResponseServiceProvider,
	hashtagService services.HashtagServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, msService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	responseHandler := handlers.NewResponseHandler(responseService)
	hashtagHandler := handlers.NewHashtagHandler(hashtagService)
	systemHandler := handlers.NewSystemHandler()
	wsHandler := handlers.NewWebSocketHandler(hub)

	requireAuth := auth.Middleware(tokens)

	// Activity feed
	r.Get("/ws", wsHandler.Serve)

	// Authentication and federation
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/login-microsoft", authHandler.LoginMicrosoft)
		r.Get("/microsoft-callback", authHandler.MicrosoftCallback)
		r.Get("/login-error", authHandler.LoginError)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", authHandler.Profile)
			r.Delete("/profile", authHandler.Deactivate)
		})
	})

	// Protected resources
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", questionHandler.GetAll)
			r.Post("/", questionHandler.Create)
			r.Get("/user/{userId}", questionHandler.GetByUser)
			r.Get("/hashtag/{name}", questionHandler.GetByHashtag)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", questionHandler.Get)
				r.Put("/", questionHandler.Update)
				r.Delete("/", questionHandler.Delete)
			})
		})

		r.Route("/responses", func(r chi.Router) {
			r.Get("/", responseHandler.GetAll)
			r.Post("/", responseHandler.Create)
			r.Get("/question/{questionId}", responseHandler.GetByQuestion)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", responseHandler.Get)
				r.Put("/", responseHandler.Update)
				r.Delete("/", responseHandler.Delete)
				r.Post("/like", responseHandler.Like)
			})
		})

		r.Route("/hashtags", func(r chi.Router) {
			r.Get("/", hashtagHandler.GetAll)
			r.Post("/", hashtagHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", hashtagHandler.Get)
				r.Put("/", hashtagHandler.Update)
				r.Delete("/", hashtagHandler.Delete)
			})
		})

		r.Get("/system/stats", systemHandler.Stats)
	})

	return r
}
