package app

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/jobboard-api/internal/handler"
	"github.com/yourusername/jobboard-api/internal/middleware"
)

// Router builds the HTTP API. rateLimiter may be nil.
func (a *App) Router(rateLimiter *middleware.RateLimiter) *gin.Engine {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:  a.Config.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   "jobboard-api",
			"providers": a.Providers.IDs(),
			"time":      time.Now().UTC(),
		})
	})

	jobHandler := handler.NewJobHandler(a.Selector, a.Providers, a.Engine)
	analyzeHandler := handler.NewAnalyzeHandler(a.Engine)

	api := r.Group("/")
	if rateLimiter != nil {
		api.Use(rateLimiter.Limit())
	}
	{
		api.GET("/providers", jobHandler.ListProviders)
		api.POST("/providers/:id/select", jobHandler.SelectProvider)
		api.GET("/jobs", jobHandler.GetJobs)
		api.GET("/jobs/:provider", jobHandler.GetJobs)
		api.POST("/jobs/:provider/refresh", jobHandler.RefreshJobs)

		api.POST("/score", analyzeHandler.Score)
		api.POST("/classify", analyzeHandler.Classify)
	}

	return r
}
