package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentify/services"
)

// GetDashboardStats 後台總覽
func GetDashboardStats(c *gin.Context) {
	stats, err := services.GetDashboardStats(c.Request.Context())
	if err != nil {
		log.Printf("Failed to get dashboard stats: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get dashboard stats", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Dashboard stats retrieved", stats)
}

// GetCarAnalytics 車輛統計：配備熱門度
func GetCarAnalytics(c *gin.Context) {
	analytics, err := services.GetCarAnalytics()
	if err != nil {
		log.Printf("Failed to get car analytics: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get car analytics", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Car analytics retrieved", analytics)
}

// GetUserAnalytics 使用者統計：月成長曲線
func GetUserAnalytics(c *gin.Context) {
	analytics, err := services.GetUserAnalytics()
	if err != nil {
		log.Printf("Failed to get user analytics: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get user analytics", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "User analytics retrieved", analytics)
}
