// Package config 提供配置加载和管理功能
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultPort        = 3001
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultMetricsPath = "/metrics"
	DefaultNamespace   = "pattern_chat"
)

// 环境变量
const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_BASE_URL"
	EnvModel   = "OPENAI_MODEL"
	EnvPort    = "PORT"
)

// Config 应用程序配置结构
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Relay     RelayConfig     `yaml:"relay"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// RelayConfig 转发限制，0表示不限制
type RelayConfig struct {
	MaxMessages      int `yaml:"max_messages"`       // 单次请求最大消息数
	MaxContentLength int `yaml:"max_content_length"` // 单条消息最大字符数
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`  // debug/info/warn/error
	Format string `yaml:"format"` // console/json
	File   string `yaml:"file"`   // 日志文件，为空时输出到标准错误
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// Load 从文件加载配置，文件不存在时仅使用环境变量和默认值
func Load(filename string) (*Config, error) {
	var config Config

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("读取配置文件失败: %v", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("解析配置文件失败: %v", err)
			}
		}
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}

	setDefaults(&config)

	// 验证配置
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &config, nil
}

// Addr 返回监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnv 环境变量优先于配置文件
func applyEnv(config *Config) error {
	if v, ok := os.LookupEnv(EnvAPIKey); ok && v != "" {
		config.OpenAI.APIKey = v
	}
	if v, ok := os.LookupEnv(EnvBaseURL); ok && v != "" {
		config.OpenAI.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvModel); ok && v != "" {
		config.OpenAI.Model = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("解析%s失败: %v", EnvPort, err)
		}
		config.Server.Port = port
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(config *Config) {
	server := NewServerConfig()
	if config.Server.Host == "" {
		config.Server.Host = server.Host
	}
	if config.Server.Port == 0 {
		config.Server.Port = server.Port
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = server.ReadTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = server.ShutdownTimeout
	}

	openai := NewOpenAIConfig()
	if config.OpenAI.BaseURL == "" {
		config.OpenAI.BaseURL = openai.BaseURL
	}
	if config.OpenAI.Model == "" {
		config.OpenAI.Model = openai.Model
	}

	ws := NewWebSocketConfig()
	if config.WebSocket.PingPeriod == 0 {
		config.WebSocket.PingPeriod = ws.PingPeriod
	}
	if config.WebSocket.PongWait == 0 {
		config.WebSocket.PongWait = ws.PongWait
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "console"
	}

	if config.Metrics.Path == "" {
		config.Metrics.Path = DefaultMetricsPath
	}
	if config.Metrics.Namespace == "" {
		config.Metrics.Namespace = DefaultNamespace
	}
}

// validateConfig 验证配置是否有效
func validateConfig(config *Config) error {
	if err := config.Server.Validate(); err != nil {
		return err
	}
	if err := config.OpenAI.Validate(); err != nil {
		return err
	}
	if err := config.WebSocket.Validate(); err != nil {
		return err
	}
	if config.Relay.MaxMessages < 0 || config.Relay.MaxContentLength < 0 {
		return ErrNegativeLimit
	}
	if config.Metrics.Enabled && !strings.HasPrefix(config.Metrics.Path, "/") {
		return ErrInvalidMetricsPath
	}
	return nil
}
