package router

import (
	"github.com/gin-gonic/gin"

	"faxfhir/internal/config"
	"faxfhir/internal/handler"
	"faxfhir/internal/middleware"
	"faxfhir/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	documentH *handler.DocumentHandler,
	statsH *handler.StatsHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/token", authH.Token)

	// Protected routes - require a valid JWT or API key
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	documents := protected.Group("/documents")
	documents.POST("/process", documentH.Process)
	documents.POST("/batch", documentH.ProcessBatch)
	documents.GET("", documentH.List)
	documents.GET("/:id", documentH.GetByID)

	protected.GET("/stats", statsH.Get)
	protected.GET("/reports/results.xlsx", reportH.ResultsXLSX)

	return r
}
