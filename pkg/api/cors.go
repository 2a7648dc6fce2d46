package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/supra126/worker-email-notifier/pkg/apiresponses"
	"github.com/supra126/worker-email-notifier/pkg/config"
)

const (
	allowedMethods = "POST, OPTIONS"
	allowedHeaders = "Content-Type, X-API-Key"
)

// ResolveOrigin maps a request's Origin header to the value of the
// Access-Control-Allow-Origin header. With an allow-list configured, only a
// listed origin is echoed back and anything else resolves to "" (request must
// be rejected). With a single configured origin, that origin is always
// returned. With no policy at all the gateway is deliberately wildcard-open.
func ResolveOrigin(requestOrigin string, cfg config.CORS) string {
	if len(cfg.AllowedOrigins) > 0 {
		for _, allowed := range cfg.AllowedOrigins {
			if requestOrigin != "" && requestOrigin == allowed {
				return requestOrigin
			}
		}
		return ""
	}

	if cfg.Origin != "" {
		return cfg.Origin
	}

	return "*"
}

// OriginPolicy enforces the configured origin policy on every request.
// Preflight requests are answered here; non-preflight requests from a
// disallowed origin are rejected with 403 before any other gate runs.
func OriginPolicy(cfg config.CORS) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := ResolveOrigin(c.GetHeader("Origin"), cfg)

		if c.Request.Method == http.MethodOptions {
			if origin == "" {
				c.String(http.StatusForbidden, "Forbidden")
				c.Abort()
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", allowedMethods)
			c.Header("Access-Control-Allow-Headers", allowedHeaders)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if origin == "" {
			apiresponses.Error(c, http.StatusForbidden, "Origin not allowed")
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Next()
	}
}

// permissiveCORS handles the no-policy default with gin-contrib's middleware.
// The wildcard header goes on every response, not only those with an Origin
// header, which gin-contrib would otherwise skip.
func permissiveCORS() gin.HandlerFunc {
	handle := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type", "X-API-Key"},
		MaxAge:          12 * time.Hour,
	})
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		handle(c)
	}
}
