package router

import (
	"github.com/gin-gonic/gin"

	"poscan/internal/config"
	"poscan/internal/handler"
	"poscan/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	orderH *handler.OrderHandler,
	healthH *handler.HealthHandler,
	cors *config.CORSConfig,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cors.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	api := r.Group("/api")

	orders := api.Group("/purchase-orders")
	orders.GET("", orderH.List)
	orders.POST("/upload", orderH.Upload)
	orders.GET("/export", orderH.Export)
	orders.PATCH("/:id", orderH.Update)
	orders.GET("/:id/source", orderH.Source)

	return r
}
