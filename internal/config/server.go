package config

import "time"

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Host            string        `yaml:"host"`             // 服务器监听地址
	Port            int           `yaml:"port"`             // 服务器监听端口
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // 读超时
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // 写超时，需要覆盖上游调用耗时
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // 优雅关闭等待时间
}

// NewServerConfig 创建默认服务器配置
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "0.0.0.0",
		Port:            DefaultPort,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    0,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Validate 验证服务器配置
func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return ErrEmptyHost
	}
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return ErrNegativeTimeout
	}
	return nil
}
