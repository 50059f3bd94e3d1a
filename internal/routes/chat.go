package routes

import (
	"github.com/gin-gonic/gin"

	"pattern_chat/internal/handlers"
	"pattern_chat/internal/models"
)

// RegisterChatRoutes 注册聊天相关路由
func RegisterChatRoutes(r *gin.Engine, relay models.ChatRelay, ws handlers.WebSocketOptions) {
	chatHandler := handlers.NewChatHandler(relay, ws)

	api := r.Group("/api")
	api.POST("/chat", chatHandler.HandleChat)
	api.GET("/chat/ws", chatHandler.HandleWebSocket)
	api.GET("/patterns", handlers.ListPatterns)
}
