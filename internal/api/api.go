// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/api/handlers"
	"github.com/estoquelab/estoque-advisor/internal/api/middleware"
	"github.com/estoquelab/estoque-advisor/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(advisory *service.AdvisoryService, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Logger(),
		middleware.Recovery(),
	)

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if advisory != nil {
		advisoryHandler := handlers.NewAdvisoryHandler(advisory)
		advisoryGroup := apiGroup.Group("/advisory")
		{
			advisoryGroup.GET("/dashboard", advisoryHandler.GetDashboard)
			advisoryGroup.GET("/items", advisoryHandler.GetItems)
			advisoryGroup.GET("/actions", advisoryHandler.GetPriorityActions)
			advisoryGroup.GET("/available_dates", advisoryHandler.GetAvailableDates)
			advisoryGroup.POST("/replenishment/simulate", advisoryHandler.Simulate)
			advisoryGroup.POST("/mix/validate", advisoryHandler.ValidateMix)
			advisoryGroup.GET("/seasonality/events", advisoryHandler.GetSeasonalEvents)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
