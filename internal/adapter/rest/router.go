// Package rest serves the ledger reports and writes as a JSON HTTP API.
package rest

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/simaogato/tradeledger-backend/internal/usecase/ledger"
	"github.com/simaogato/tradeledger-backend/internal/usecase/report"
)

// RouterConfig holds the HTTP settings
type RouterConfig struct {
	APIToken       string
	AllowedOrigins []string
}

// NewRouter builds the gin engine with every route registered
func NewRouter(cfg RouterConfig, reports *report.ReportService, ledgerService *ledger.LedgerService, logger zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		router.Use(cors.New(corsConfig))
	}

	h := &Handler{Reports: reports, Ledger: ledgerService}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(bearerAuth(cfg.APIToken))
	{
		api.GET("/daily-pnl", h.GetDailyPnl)
		api.GET("/attribution", h.GetAttribution)
		api.GET("/capital", h.GetCapital)

		api.GET("/cash-events", h.ListCashEvents)
		api.POST("/cash-events", h.RecordCashEvent)
		api.PUT("/cash-events/:id", h.UpdateCashEvent)
		api.DELETE("/cash-events/:id", h.DeleteCashEvent)

		api.GET("/trades", h.ListTradeEvents)
		api.POST("/trades", h.RecordTradeEvent)
		api.PUT("/trades/:id", h.UpdateTradeEvent)
		api.DELETE("/trades/:id", h.DeleteTradeEvent)

		api.PUT("/profiles/:id", h.UpdateProfile)
	}

	return router
}

// bearerAuth rejects requests without "Authorization: Bearer <token>"
func bearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Next()
	}
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("error", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}
