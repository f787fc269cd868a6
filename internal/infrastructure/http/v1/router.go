// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"contractops/internal/core/clock"
	"contractops/internal/domain/client"
	"contractops/internal/domain/operation"
	"contractops/internal/domain/reports"
	"contractops/internal/infrastructure/http/v1/handlers"
	"contractops/internal/infrastructure/http/v1/middleware"
	"contractops/pkg/logger"
)

// RouterConfig holds everything the router needs wired in.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Clock drives report timestamps and health info
	Clock clock.Clock

	// Version reported by /health/info
	Version string

	Clients    *client.Service
	Operations *operation.Service
	Reports    *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Clock, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		clientHandler := handlers.NewClientHandler(base, cfg.Clients)
		clientHandler.RegisterRoutes(v1.Group("/clients"))

		operationHandler := handlers.NewOperationHandler(base, cfg.Operations)
		operationHandler.RegisterRoutes(v1.Group("/operations"))

		reportsHandler := handlers.NewReportsHandler(base, cfg.Reports, cfg.Clock)
		reportsHandler.RegisterRoutes(v1.Group("/reports"))
	}

	return router
}
