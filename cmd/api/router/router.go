package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"

	"mention-radar/cmd/api/handlers"
	"mention-radar/cmd/api/middleware"
	"mention-radar/cmd/api/services"
	"mention-radar/db"
	_ "mention-radar/docs"
)

// Deps carries the wired services. SavedSearches is nil when Mongo is not
// configured; the saved-search routes are skipped in that case.
type Deps struct {
	Search        *services.SearchService
	SavedSearches *services.SavedSearchService
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestTrace())
	r.Use(middleware.RequestLoggingMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if d := db.Database(); d != nil {
			if err := d.RunCommand(context.Background(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/search", handlers.SearchHandler(deps.Search))

		if deps.SavedSearches != nil {
			api.POST("/searches", handlers.CreateSavedSearchHandler(deps.SavedSearches))
			api.GET("/searches", handlers.ListSavedSearchesHandler(deps.SavedSearches))
			api.GET("/searches/:id", handlers.GetSavedSearchHandler(deps.SavedSearches))
			api.PUT("/searches/:id", handlers.UpdateSavedSearchHandler(deps.SavedSearches))
			api.DELETE("/searches/:id", handlers.DeleteSavedSearchHandler(deps.SavedSearches))
			api.POST("/searches/:id/run", handlers.RunSavedSearchHandler(deps.SavedSearches))
			api.GET("/searches/:id/alerts", handlers.ListAlertsHandler(deps.SavedSearches))
		}
	}

	return r
}
