package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIntQuery 解析整數 query 參數，缺漏或格式錯誤時回預設值
func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
