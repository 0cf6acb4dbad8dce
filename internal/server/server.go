package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/krishiguru/apiserver/config"
	"github.com/krishiguru/apiserver/internal/advisory"
	"github.com/krishiguru/apiserver/internal/db"
	"github.com/krishiguru/apiserver/internal/gemini"
	"github.com/krishiguru/apiserver/internal/handlers"
	"github.com/krishiguru/apiserver/internal/mq"
	"github.com/krishiguru/apiserver/internal/services"
	"github.com/krishiguru/apiserver/internal/store"
	"github.com/krishiguru/apiserver/internal/weather"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *mq.Events
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	events := openEvents(ctx, cfg.MQ)

	userRepo := store.NewUserRepository(dbConn)
	profileRepo := store.NewProfileRepository(dbConn)

	userService := services.NewUserService(userRepo)
	profileService := services.NewProfileService(profileRepo)

	geminiClient := gemini.NewClient(cfg.Gemini)
	weatherClient := weather.NewClient(cfg.Weather)
	advisoryService := advisory.NewService(geminiClient, events)

	authHandler := handlers.NewAuthHandler(userService, events, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	profileHandler := handlers.NewProfileHandler(profileService)
	advisoryHandler := handlers.NewAdvisoryHandler(advisoryService, weatherClient)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(90*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, authHandler)
		})
		r.Route("/profile", func(r chi.Router) {
			handlers.ProfileRouter(r, profileHandler, authHandler.RequireAuth)
		})
		r.Route("/ai", func(r chi.Router) {
			handlers.AdvisoryRouter(r, advisoryHandler)
		})
		r.Get("/weather", advisoryHandler.CurrentWeather)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     events,
	}, nil
}

// openEvents builds the configured event backend. A broker failure only
// disables events; the API keeps serving.
func openEvents(ctx context.Context, cfg config.MQConfig) *mq.Events {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil
	case "rabbitmq":
		backend, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			log.Printf("rabbitmq unavailable, events disabled: %v", err)
			return nil
		}
		return mq.NewEvents(backend)
	case "pubsub":
		backend, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			log.Printf("pubsub unavailable, events disabled: %v", err)
			return nil
		}
		return mq.NewEvents(backend)
	default:
		log.Printf("unknown MQ backend %q, events disabled", cfg.Backend)
		return nil
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.events != nil {
		_ = s.events.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
