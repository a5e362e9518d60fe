// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"inventra/internal/infrastructure/http/v1/handlers"
	"inventra/internal/infrastructure/http/v1/middleware"
	"inventra/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation. Nil disables authentication.
	JWTValidator middleware.JWTValidator

	// Validation is the handler behind /api/v1/validate
	Validation *handlers.ValidationHandler

	// Health pings readiness dependencies (database, cache)
	Health *handlers.HealthHandler

	// Debug keeps gin in debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Health == nil {
		cfg.Health = handlers.NewHealthHandler(nil)
	}

	handlers.RegisterValidators()
	router := gin.New()

	// Global middleware (order matters!)
	// ErrorHandler wraps Recovery so recovered panics are rendered.
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))

	// Health endpoints (no auth)
	health := router.Group("/health")
	{
		health.GET("/live", cfg.Health.Live)
		health.GET("/ready", cfg.Health.Ready)
	}

	v1 := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		v1.Use(middleware.Auth(cfg.JWTValidator))
	}

	if cfg.Validation != nil {
		RegisterValidationRoutes(v1.Group("/validate"), cfg.Validation)
	}

	return router
}
