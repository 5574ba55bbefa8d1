package handlers

import (
	"log/slog"
	"slices"

	"marketly-backend/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig wires handlers and middleware into the HTTP router
type RouterConfig struct {
	Auth           *AuthHandler
	Campaigns      *CampaignHandler
	Health         *HealthHandler
	Tokens         TokenResolver
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter builds the gin engine with every route registered
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinMiddleware(cfg.Logger))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/health", cfg.Health.Health)

	requireAuth := RequireAuth(cfg.Tokens)

	auth := r.Group("/auth")
	{
		auth.POST("/register", cfg.Auth.Register)
		auth.POST("/login", cfg.Auth.Login)
		auth.PUT("/update", requireAuth, cfg.Auth.Update)
	}

	r.POST("/generate", OptionalAuth(cfg.Tokens), cfg.Campaigns.Generate)

	campaigns := r.Group("/campaigns", requireAuth)
	{
		campaigns.GET("", cfg.Campaigns.List)
		campaigns.DELETE("/:id", cfg.Campaigns.Delete)
		campaigns.GET("/:id/download", cfg.Campaigns.Download)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.ExposeHeaders = []string{"Content-Disposition"}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
