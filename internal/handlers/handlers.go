package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pattern_chat/internal/patterns"
)

// Health 健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ListPatterns 返回支持的设计模式目录
func ListPatterns(c *gin.Context) {
	c.JSON(http.StatusOK, patterns.Infos())
}
