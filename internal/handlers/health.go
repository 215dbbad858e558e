package handlers

import (
	"net/http"

	"github.com/oficont/oficont/httpx"
	"github.com/oficont/oficont/internal/db"
	"github.com/oficont/oficont/internal/logging"
	"gorm.io/gorm"
)

// Health answers 200 while the database responds and 503 otherwise.
func Health(conn *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(conn.WithContext(r.Context())); err != nil {
			logging.FromContext(r.Context()).Warn("health check failed", "error", err)
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
