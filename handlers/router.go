package handlers

import (
	"context"
	"net/http"
	"time"

	"mailcraft-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports database reachability. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig wires handlers and middleware into the HTTP surface
type RouterConfig struct {
	Users  *UserHandler
	Emails *EmailHandler
	Tokens middleware.TokenVerifier
	DB     Pinger
	Logger *zap.Logger

	// ProtectListings puts the listing and favorite routes behind the
	// auth gate. They are open otherwise.
	ProtectListings bool
}

// NewRouter builds the gin engine serving /api/v1 plus health and metrics
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.Metrics())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if cfg.DB == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := cfg.DB.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(cfg.Tokens)
	listingGate := middleware.OptionalAuth(cfg.Tokens)
	if cfg.ProtectListings {
		listingGate = requireAuth
	}

	api := r.Group("/api/v1")
	{
		user := api.Group("/user")
		user.POST("/signup", cfg.Users.Signup)
		user.POST("/signin", cfg.Users.Signin)
		user.GET("/me", requireAuth, cfg.Users.Me)
		user.GET("/users", listingGate, cfg.Users.ListUsers)

		email := api.Group("/email")
		email.POST("/generate-email", requireAuth, cfg.Emails.GenerateEmail)
		email.GET("/emails", listingGate, cfg.Emails.ListEmails)
		email.GET("/emails/user/:userId", requireAuth, cfg.Emails.History)
		email.GET("/emails/user/:userId/favorites", listingGate, cfg.Emails.Favorites)
		email.PUT("/emails/:emailId/favorite", listingGate, cfg.Emails.ToggleFavorite)
		email.GET("/emails/:emailId/archive", requireAuth, cfg.Emails.DownloadArchive)
	}

	return r
}
