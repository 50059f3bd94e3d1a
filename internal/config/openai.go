package config

import "time"

// OpenAIConfig 上游补全服务配置
type OpenAIConfig struct {
	APIKey  string        `yaml:"api_key"`  // API密钥
	BaseURL string        `yaml:"base_url"` // 接口地址，兼容OpenAI协议的服务均可
	Model   string        `yaml:"model"`    // 固定模型名称
	Timeout time.Duration `yaml:"timeout"`  // 请求超时，0表示交给传输层
}

// NewOpenAIConfig 创建默认上游配置
func NewOpenAIConfig() *OpenAIConfig {
	return &OpenAIConfig{
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
	}
}

// Validate 验证上游配置
func (c *OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return ErrEmptyAPIKey
	}
	if c.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	if c.Model == "" {
		return ErrEmptyModel
	}
	if c.Timeout < 0 {
		return ErrNegativeTimeout
	}
	return nil
}
