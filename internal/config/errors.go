package config

import "errors"

// 配置相关错误
var (
	ErrEmptyHost          = errors.New("服务器地址不能为空")
	ErrInvalidPort        = errors.New("服务器端口必须在1-65535之间")
	ErrEmptyAPIKey        = errors.New("OpenAI APIKey不能为空")
	ErrEmptyModel         = errors.New("模型名称不能为空")
	ErrEmptyBaseURL       = errors.New("OpenAI BaseURL不能为空")
	ErrNegativeTimeout    = errors.New("超时时间不能为负数")
	ErrNegativeLimit      = errors.New("转发限制不能为负数")
	ErrInvalidMetricsPath = errors.New("指标路径必须以/开头")
	ErrInvalidPingPeriod  = errors.New("心跳间隔必须小于Pong等待时间")
)
