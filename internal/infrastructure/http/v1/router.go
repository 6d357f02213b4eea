// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"hwcatalog/internal/infrastructure/http/v1/dto"
	"hwcatalog/internal/infrastructure/http/v1/handlers"
	"hwcatalog/internal/infrastructure/http/v1/middleware"
	"hwcatalog/pkg/logger"
)

// APIPrefix is the root of all versioned endpoints.
const APIPrefix = "/api/v1"

// RouterConfig holds router configuration.
type RouterConfig struct {
	Reader handlers.HardwareReader
	Writer handlers.HardwareWriter

	// DB is checked by the readiness probe
	DB handlers.Pinger

	// Logger for request logging
	Logger *logger.Logger

	// Development enables gin debug mode
	Development bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()

	// Recovery is innermost so that ErrorHandler renders recovered panics
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group(APIPrefix)
	hardwareHandler := handlers.NewHardwareHandler(cfg.Reader, cfg.Writer, APIPrefix+"/hardware")
	RegisterResourceRoutes(api.Group("/hardware"), hardwareHandler)

	return router, nil
}
