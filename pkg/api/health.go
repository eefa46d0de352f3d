package api

import (
	"net/http"

	"github.com/confhub/confhub/pkg/config"
	"github.com/confhub/confhub/pkg/models"
)

// HealthHandler reports service health, including database connectivity.
// GET /api/v0/health
func HealthHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		dbStatus := "ok"

		sqlDB, err := cfg.DB.DB()
		if err != nil {
			dbStatus = "unavailable"
			status = "degraded"
		} else if err := sqlDB.PingContext(r.Context()); err != nil {
			dbStatus = "unreachable"
			status = "degraded"
		}

		if status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		encodeResponse(w, r, map[string]string{
			"status":   status,
			"database": dbStatus,
		})
	}
}

// StatsHandler returns aggregate counts across the platform. CFP openness is
// evaluated per conference in that conference's timezone, so a CFP open in
// Tokyo counts as open even when the server clock still reads yesterday.
// GET /api/v0/stats
func StatsHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var conferences []models.Conference
		if err := cfg.DB.Preload("Program.Cfps").Find(&conferences).Error; err != nil {
			cfg.Logger.Error("failed to load conferences for stats", "error", err)
			encodeError(w, "Failed to compute stats", http.StatusInternalServerError)
			return
		}

		now := cfg.Clock.Now()
		var totalCfps, openCfps int
		for _, conference := range conferences {
			if conference.Program == nil {
				continue
			}
			loc := conference.TZLocation()
			for _, cfp := range conference.Program.Cfps {
				totalCfps++
				if cfp.Open(now, loc) {
					openCfps++
				}
			}
		}

		encodeResponse(w, r, map[string]interface{}{
			"conferences": len(conferences),
			"cfps":        totalCfps,
			"open_cfps":   openCfps,
		})
	}
}
