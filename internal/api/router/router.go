package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhtq/vodsync/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())
	r.Use(PrincipalMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "vodsync-api-service",
		})
	})

	videoHandler := handler.NewVideoHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		events := v1.Group("/events")
		{
			// POST /api/v1/events - Enqueue a provider webhook event
			events.POST("", videoHandler.IngestEvent)

			// POST /api/v1/events/sync - Reconcile an event inline (replay path)
			events.POST("/sync", videoHandler.ReconcileEventSync)
		}

		// POST /api/v1/uploads - Record a finished client upload
		v1.POST("/uploads", videoHandler.HandleUploadSuccess)

		videos := v1.Group("/videos")
		{
			// GET /api/v1/videos - List the caller's videos (polling read path)
			videos.GET("", videoHandler.ListVideos)

			// DELETE /api/v1/videos - Delete all of the caller's videos
			videos.DELETE("", videoHandler.CleanupVideos)
		}
	}

	return r
}
