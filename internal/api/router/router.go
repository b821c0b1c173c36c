package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/healthassist/triage-platform/internal/appointments"
	httpmiddleware "github.com/healthassist/triage-platform/internal/http/middleware"
	"github.com/healthassist/triage-platform/internal/triage"
	"github.com/healthassist/triage-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	TriageHandler       *triage.Handler
	AppointmentsHandler *appointments.Handler
	MetricsHandler      http.Handler
	AdminAuthSecret     string
	CORSAllowedOrigins  []string

	// MessageRatePerSecond bounds how fast a single IP can post messages.
	// Zero disables rate limiting.
	MessageRatePerSecond float64
	MessageBurst         int
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

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

	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.TriageHandler != nil {
		r.Route("/conversations", func(c chi.Router) {
			if cfg.MessageRatePerSecond > 0 {
				burst := cfg.MessageBurst
				if burst <= 0 {
					burst = 1
				}
				c.Use(httpmiddleware.MessageRateLimit(cfg.MessageRatePerSecond, burst))
			}
			c.Post("/start", cfg.TriageHandler.Start)
			c.Post("/message", cfg.TriageHandler.Message)
			c.Get("/{sessionID}/snapshot", cfg.TriageHandler.Snapshot)
		})
	}

	if cfg.AppointmentsHandler != nil && cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/appointments", cfg.AppointmentsHandler.List)
			admin.Get("/appointments/{bookingID}", cfg.AppointmentsHandler.Get)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
