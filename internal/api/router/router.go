package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/spectramedia/bettybot/internal/http/handlers"
	httpmiddleware "github.com/spectramedia/bettybot/internal/http/middleware"
	"github.com/spectramedia/bettybot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Chat               *handlers.ChatHandler
	Meta               *handlers.MetaHandler
	Onboarding         *handlers.OnboardingHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.Chat.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/ping", cfg.Chat.Ping)
		api.Post("/bettybot", cfg.Chat.Chat)
		api.Post("/reset", cfg.Chat.Reset)
		if cfg.Meta != nil {
			api.Get("/bot_meta", cfg.Meta.BotMeta)
			api.Get("/embed_meta", cfg.Meta.EmbedMeta)
		}
		if cfg.Onboarding != nil {
			api.Post("/bots", cfg.Onboarding.CreateBot)
		}
	})

	return r
}
