// Package relay 是聊天转发服务的HTTP客户端
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"pattern_chat/internal/models"
)

// DefaultBaseURL 本地转发服务地址
const DefaultBaseURL = "http://localhost:3001"

// ErrEmptyReply 响应中没有消息内容
var ErrEmptyReply = errors.New("转发服务返回了空消息")

// StatusError 转发服务返回了非2xx状态
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("转发服务返回错误: %d %s", e.StatusCode, e.Message)
}

// Config 客户端配置
type Config struct {
	BaseURL string        // 转发服务地址
	Timeout time.Duration // 0表示不超时
}

// Client 转发服务客户端
type Client struct {
	config Config
	client *http.Client
}

// NewClient 创建新的客户端
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Send 发送完整对话，返回助手回复
func (c *Client) Send(ctx context.Context, messages []models.Message) (models.Message, error) {
	jsonData, err := json.Marshal(models.ChatRequest{Messages: messages})
	if err != nil {
		return models.Message{}, errors.Wrap(err, "序列化请求失败")
	}

	url := c.config.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return models.Message{}, errors.Wrap(err, "创建请求失败")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Message{}, errors.Wrap(err, "发送请求失败")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errResp models.ErrorResponse
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return models.Message{}, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	var reply models.Message
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return models.Message{}, errors.Wrap(err, "解析响应失败")
	}
	if reply.Role == "" && reply.Content == "" {
		return models.Message{}, ErrEmptyReply
	}
	return reply, nil
}
