// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/api/handlers"
	"github.com/andresuchdata/salesintel/backend-go/internal/api/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	PlanService   handlers.PlanService
	BasketService handlers.BasketService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
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

	if services != nil {
		if services.PlanService != nil {
			planHandler := handlers.NewPlanHandler(services.PlanService)
			apiGroup.POST("/plans/generate", planHandler.GeneratePlans)
			apiGroup.GET("/plans/:user_id", planHandler.GetWeekPlans)
			apiGroup.GET("/users/:user_id/retailer_scores", planHandler.GetRetailerScores)
			apiGroup.POST("/actions/:action_id/undo", planHandler.UndoAction)
			apiGroup.GET("/archive/plans", planHandler.GetArchivedWeek)
		}

		if services.BasketService != nil {
			basketHandler := handlers.NewBasketHandler(services.BasketService)
			apiGroup.DELETE("/suggestions/cache", basketHandler.FlushSuggestions)
			retailerGroup := apiGroup.Group("/retailers/:retailer_id")
			{
				retailerGroup.GET("/suggestions", basketHandler.GetSuggestions)
				retailerGroup.DELETE("/suggestions/cache", basketHandler.InvalidateSuggestions)
			}
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
