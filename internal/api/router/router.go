package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/healthguard/internal/chat"
	"github.com/wolfman30/healthguard/internal/compliance"
	"github.com/wolfman30/healthguard/internal/healthlog"
	httpmiddleware "github.com/wolfman30/healthguard/internal/http/middleware"
	"github.com/wolfman30/healthguard/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	HealthLogs         *healthlog.Handler
	Chat               *chat.Handler
	Audit              *compliance.AuditHandler
	AuthSecret         string
	ChatRateLimiter    *httpmiddleware.RateLimiter
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(httpmiddleware.UserJWT(cfg.AuthSecret))

		if cfg.HealthLogs != nil {
			api.Route("/health-logs", cfg.HealthLogs.Routes)
		}
		if cfg.Chat != nil {
			api.Route("/chat", func(r chi.Router) {
				if cfg.ChatRateLimiter != nil {
					r.Use(httpmiddleware.RateLimit(cfg.ChatRateLimiter))
				}
				cfg.Chat.Routes(r)
			})
			api.Post("/safety/check", cfg.Chat.CheckSafety)
		}
		if cfg.Audit != nil {
			api.Get("/safety/events", cfg.Audit.ListEvents)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
