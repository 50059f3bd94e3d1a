package routes

import (
	"github.com/gin-gonic/gin"

	"pattern_chat/internal/handlers"
	"pattern_chat/internal/metrics"
	"pattern_chat/internal/middleware"
	"pattern_chat/internal/models"
)

// Options 路由选项
type Options struct {
	Relay       models.ChatRelay
	Metrics     *metrics.Collector // 为 nil 时不暴露指标
	MetricsPath string
	WebSocket   handlers.WebSocketOptions
}

// NewEngine 创建带全部中间件和路由的 gin 引擎
func NewEngine(opts Options) *gin.Engine {
	r := gin.New()
	middleware.Setup(r, opts.Metrics)
	RegisterRoutes(r, opts)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, opts Options) {
	r.GET("/health", handlers.Health)

	// 注册聊天路由
	RegisterChatRoutes(r, opts.Relay, opts.WebSocket)

	if opts.Metrics != nil && opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(opts.Metrics.Handler()))
	}
}
