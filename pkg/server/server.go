package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/confhub/confhub/pkg/api"
	"github.com/confhub/confhub/pkg/config"
	"github.com/confhub/confhub/pkg/database"
	"github.com/confhub/confhub/pkg/models"
)

// SetupServer initializes config, database, and routes, returning the config and handler.
// This allows tests to reuse the exact same setup logic.
// The staticHandler parameter is optional - if nil, no static file serving is configured.
func SetupServer(staticHandler http.Handler) (*config.Config, http.Handler, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return nil, nil, err
	}

	// Initialize database
	db, err := database.InitDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	cfg.DB = db

	// Auto-migrate if enabled
	if cfg.AutoMigrate {
		cfg.Logger.Info("running database migrations")
		if err := db.AutoMigrate(
			&models.User{},
			&models.Conference{},
			&models.Program{},
			&models.Cfp{},
			&models.EmailSettings{},
		); err != nil {
			return nil, nil, err
		}
	}

	// Create mux and register routes
	mux := http.NewServeMux()
	RegisterRoutes(cfg, mux)

	// Fallback handler for SPA routing (only if staticHandler provided)
	if staticHandler != nil {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			// If it's an API route, return 404 (API routes are already registered)
			if strings.HasPrefix(r.URL.Path, "/api/") {
				http.NotFound(w, r)
				return
			}
			staticHandler.ServeHTTP(w, r)
		})
	}

	// Wrap with request ID, security headers and request logging
	var handler http.Handler = mux
	handler = api.SecurityHeaders(handler)
	handler = api.RequestID(handler)
	handler = api.RequestLogging(cfg.Logger, handler)
	handler = api.GzipHandler(handler)

	return cfg, handler, nil
}

// RegisterRoutes registers all API routes on the given mux
func RegisterRoutes(cfg *config.Config, mux *http.ServeMux) {
	// Rate limiters for different endpoint groups.
	// In test mode (GO_TEST=1), use permissive limits to avoid flaky tests.
	var authLimiter, writeLimiter, readLimiter *api.RateLimiter
	if os.Getenv("GO_TEST") == "1" {
		authLimiter = api.NewRateLimiter(1000, 10000, cfg.TrustedProxies)
		writeLimiter = api.NewRateLimiter(1000, 10000, cfg.TrustedProxies)
		readLimiter = api.NewRateLimiter(1000, 10000, cfg.TrustedProxies)
	} else {
		authLimiter = api.NewRateLimiter(5, 10, cfg.TrustedProxies)   // 5 req/s, burst 10 (login)
		writeLimiter = api.NewRateLimiter(10, 20, cfg.TrustedProxies) // 10 req/s, burst 20 (create/update)
		readLimiter = api.NewRateLimiter(30, 60, cfg.TrustedProxies)  // 30 req/s, burst 60 (public reads)
	}

	// Public endpoints (no auth, with CORS, rate limited)
	mux.HandleFunc("/api/v0/health", api.CorsHandler(cfg, readLimiter.Middleware(api.HealthHandler(cfg))))
	mux.HandleFunc("/api/v0/stats", api.CorsHandler(cfg, readLimiter.Middleware(api.StatsHandler(cfg))))
	mux.HandleFunc("/api/v0/c/", api.CorsHandler(cfg, readLimiter.Middleware(api.GetConferenceBySlugHandler(cfg))))

	// Auth endpoints (rate limited)
	mux.HandleFunc("/api/v0/auth/login", api.CorsHandler(cfg, authLimiter.Middleware(api.LoginHandler(cfg))))
	mux.HandleFunc("/api/v0/auth/me", api.AuthCorsHandler(cfg, api.GetMeHandler(cfg)))

	// Conference collection
	mux.HandleFunc("/api/v0/conferences", api.CorsHandler(cfg, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			readLimiter.Middleware(api.ListConferencesHandler(cfg))(w, r)
		case http.MethodPost:
			writeLimiter.Middleware(api.AuthHandler(cfg, api.CreateConferenceHandler(cfg)))(w, r)
		case http.MethodOptions:
			// CORS preflight handled by wrapper
		default:
			http.Error(w, `{"error": "Method not allowed"}`, http.StatusMethodNotAllowed)
		}
	}))

	// Conference endpoints
	mux.HandleFunc("/api/v0/conferences/", api.CorsHandler(cfg, func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Handle /api/v0/conferences/{id}/cfps
		if strings.HasSuffix(path, "/cfps") {
			switch r.Method {
			case http.MethodPost:
				writeLimiter.Middleware(api.AuthHandler(cfg, api.CreateCfpHandler(cfg)))(w, r)
			case http.MethodOptions:
				// CORS preflight
			default:
				http.Error(w, `{"error": "Method not allowed"}`, http.StatusMethodNotAllowed)
			}
			return
		}

		// Handle /api/v0/conferences/{id}/email-settings
		if strings.HasSuffix(path, "/email-settings") {
			switch r.Method {
			case http.MethodGet:
				api.AuthHandler(cfg, api.GetEmailSettingsHandler(cfg))(w, r)
			case http.MethodPut:
				writeLimiter.Middleware(api.AuthHandler(cfg, api.UpdateEmailSettingsHandler(cfg)))(w, r)
			case http.MethodOptions:
				// CORS preflight
			default:
				http.Error(w, `{"error": "Method not allowed"}`, http.StatusMethodNotAllowed)
			}
			return
		}

		// Handle /api/v0/conferences/{id}
		switch r.Method {
		case http.MethodPut:
			writeLimiter.Middleware(api.AuthHandler(cfg, api.UpdateConferenceHandler(cfg)))(w, r)
		case http.MethodDelete:
			writeLimiter.Middleware(api.AuthHandler(cfg, api.DeleteConferenceHandler(cfg)))(w, r)
		case http.MethodOptions:
			// CORS preflight
		default:
			http.Error(w, `{"error": "Method not allowed"}`, http.StatusMethodNotAllowed)
		}
	}))

	// CFP endpoints
	mux.HandleFunc("/api/v0/cfps/", api.CorsHandler(cfg, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			readLimiter.Middleware(api.GetCfpHandler(cfg))(w, r)
		case http.MethodPut:
			writeLimiter.Middleware(api.AuthHandler(cfg, api.UpdateCfpHandler(cfg)))(w, r)
		case http.MethodDelete:
			writeLimiter.Middleware(api.AuthHandler(cfg, api.DeleteCfpHandler(cfg)))(w, r)
		case http.MethodOptions:
			// CORS preflight
		default:
			http.Error(w, `{"error": "Method not allowed"}`, http.StatusMethodNotAllowed)
		}
	}))
}
