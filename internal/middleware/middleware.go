// Package middleware 提供HTTP中间件
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pattern_chat/internal/metrics"
	"pattern_chat/internal/models"
)

// RequestIDHeader 请求ID头
const RequestIDHeader = "X-Request-ID"

// requestIDKey gin 上下文中的请求ID键
const requestIDKey = "request_id"

// RequestID 透传或生成请求ID，并把带请求ID的日志器放入请求上下文
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		logger := log.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()
	}
}

// GetRequestID 获取请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger 日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}

		event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP请求")
	}
}

// Recovery 恢复中间件
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", GetRequestID(c)).
			Interface("panic", recovered).
			Msg("请求处理发生panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Something went wrong"})
	})
}

// CORS CORS中间件，允许任意来源
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Metrics 指标中间件，按路由模板统计，未匹配路由记为 "unmatched"
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

// Setup 设置中间件，collector 可以为 nil
func Setup(r *gin.Engine, collector *metrics.Collector) {
	r.Use(RequestID())
	r.Use(Logger())
	r.Use(Recovery())
	r.Use(CORS())
	if collector != nil {
		r.Use(Metrics(collector))
	}
}
