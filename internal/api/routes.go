package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all API endpoints onto the router
func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/health", h.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		inventory := v1.Group("/inventory")
		{
			inventory.POST("/upload", h.UploadInventory)
			inventory.GET("", h.GetInventory)
			inventory.POST("/stock", h.UpdateStock)
		}

		trends := v1.Group("/trends")
		{
			trends.GET("/analyze", h.AnalyzeTrends)
		}

		v1.GET("/analytics", h.GetAnalytics)
		v1.POST("/recommendations", h.GenerateRecommendations)
		v1.GET("/report", h.GetReport)
	}
}
