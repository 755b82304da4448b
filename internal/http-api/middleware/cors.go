package middleware

import (
	"net/http"
	"strings"
	"time"

	"foodgram/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins. "*" allows any origin.
// Requests from other origins are rejected with 403.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, o := range origins {
		o = strings.TrimSpace(o)
		switch {
		case o == "*":
			cfg.AllowAllOrigins = true
		case strings.HasPrefix(o, "http://"), strings.HasPrefix(o, "https://"):
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		case o != "":
			logging.Warn().Str("origin", o).Msg("Ignoring CORS origin without http(s) scheme")
		}
	}
	if cfg.AllowAllOrigins {
		cfg.AllowOrigins = nil
	}
	if !cfg.AllowAllOrigins && len(cfg.AllowOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cfg)
}
