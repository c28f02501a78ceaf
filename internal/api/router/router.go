package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bscmoz/consultoria-platform/internal/auth"
	"github.com/bscmoz/consultoria-platform/internal/cases"
	httpmiddleware "github.com/bscmoz/consultoria-platform/internal/http/middleware"
	"github.com/bscmoz/consultoria-platform/internal/leads"
	"github.com/bscmoz/consultoria-platform/internal/stats"
	"github.com/bscmoz/consultoria-platform/internal/studies"
	"github.com/bscmoz/consultoria-platform/internal/triage"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	IntakeHandler      *leads.Handler
	TriageHandler      *triage.Handler
	StatsHandler       *stats.Handler
	CasesHandler       *cases.Handler
	StudiesHandler     *studies.Handler
	AuthHandler        *auth.Handler
	SessionSecret      string
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

	// Public endpoints: landing-page content, intake form, auth
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Route("/api", func(r chi.Router) {
			r.Post("/leads", cfg.IntakeHandler.CreateLead)
			r.Get("/cases", cfg.CasesHandler.ListCases)
			r.Get("/studies", cfg.StudiesHandler.ListStudies)
		})
		public.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/session", cfg.AuthHandler.SessionState)
		})
	})

	// Admin endpoints, gated on a verified session
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(auth.RequireSession(cfg.SessionSecret))

		admin.Get("/leads", cfg.TriageHandler.ListLeads)
		admin.Get("/leads/{leadID}", cfg.TriageHandler.ToggleLead)
		admin.Patch("/leads/{leadID}/status", cfg.TriageHandler.UpdateStatus)
		admin.Delete("/leads/{leadID}", cfg.TriageHandler.DeleteLead)

		admin.Get("/stats", cfg.StatsHandler.GetStats)
		admin.Get("/analytics", cfg.StatsHandler.GetAnalytics)

		admin.Get("/cases", cfg.CasesHandler.ListCases)
		admin.Post("/cases", cfg.CasesHandler.CreateCase)
		admin.Delete("/cases/{caseID}", cfg.CasesHandler.DeleteCase)

		admin.Get("/studies", cfg.StudiesHandler.ListStudies)
		admin.Post("/studies", cfg.StudiesHandler.PublishStudy)
	})

	return r
}
