package config

import "time"

// WebSocketConfig WebSocket聊天连接配置
type WebSocketConfig struct {
	PingPeriod time.Duration `yaml:"ping_period"` // 心跳间隔
	PongWait   time.Duration `yaml:"pong_wait"`   // 等待Pong响应的超时时间
}

// NewWebSocketConfig 创建默认WebSocket配置
func NewWebSocketConfig() *WebSocketConfig {
	return &WebSocketConfig{
		PingPeriod: 30 * time.Second,
		PongWait:   60 * time.Second,
	}
}

// Validate 验证WebSocket配置，心跳间隔必须小于Pong等待时间
func (c *WebSocketConfig) Validate() error {
	if c.PingPeriod < 0 || c.PongWait < 0 {
		return ErrNegativeTimeout
	}
	if c.PingPeriod >= c.PongWait {
		return ErrInvalidPingPeriod
	}
	return nil
}
