package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robert8597/swifthackathon/pkg/config"
)

type Middleware struct {
	security config.SecurityConfig
	logger   zerolog.Logger
}

func NewMiddleware(security config.SecurityConfig, logger zerolog.Logger) *Middleware {
	return &Middleware{
		security: security,
		logger:   logger,
	}
}

func (m *Middleware) SetupMiddleware(router *gin.Engine) {
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	router.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status", param.StatusCode).
			Dur("latency", param.Latency).
			Str("client_ip", param.ClientIP).
			Msg("HTTP Request")
		return ""
	}))

	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	})
}

// APIKeyMiddleware guards the API routes with a static key. When no key is
// configured the guard is disabled.
func (m *Middleware) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.security.APIKey == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.security.APIKey)) != 1 {
			m.logger.Warn().Str("client_ip", c.ClientIP()).Msg("Rejected request with invalid API key")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or missing API key",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
