package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Accept-Language, "+clientIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/feeds/:name", handler.GetFeed)
	r.GET("/health", handler.GetHealth)

	api := r.Group("/api")
	{
		api.GET("/collections", handler.ListCollections)
		api.GET("/collections/:name/items", handler.ListItems)
		api.GET("/collections/:name/facets/:facet", handler.GetFacetCounts)

		api.GET("/ranges/:option", handler.GetQuickRange)
		api.POST("/ranges/validate", handler.ValidateRange)

		api.GET("/views", handler.ListViews)
		api.POST("/views", handler.SaveView)
		api.GET("/views/:id", handler.GetView)
		api.POST("/views/:id/touch", handler.TouchView)
		api.DELETE("/views/:id", handler.DeleteView)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "Content Comb",
			"version":     handler.opts.Version,
			"description": "Filterable content listings with shareable query state, facet counts and saved views",
			"endpoints": map[string]string{
				"health":      "/health",
				"feed":        "/feeds/<collection>?<filters>",
				"collections": "/api/collections",
				"items":       "/api/collections/<collection>/items?<filters>&page=<n>&per=<n>",
				"facets":      "/api/collections/<collection>/facets/<areas|types|sources>?<filters>",
				"ranges":      "/api/ranges/<today|last7|thisMonth|thisYear|custom>?today=<YYYY-MM-DD>",
				"validate":    "/api/ranges/validate (POST)",
				"views":       "/api/views (GET, POST; " + clientIDHeader + " header)",
				"view":        "/api/views/<id> (GET, DELETE), /api/views/<id>/touch (POST)",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}
