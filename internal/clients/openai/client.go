// Package openai 封装上游 Chat Completions 接口
package openai

import (
	"context"
	"net/http"
	"time"

	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/pkg/errors"

	"pattern_chat/internal/models"
)

// ErrNoChoices 上游未返回任何候选
var ErrNoChoices = errors.New("上游未返回候选回复")

// Config 客户端配置
type Config struct {
	APIKey  string        // API密钥
	BaseURL string        // 接口地址
	Model   string        // 固定模型名称
	Timeout time.Duration // 0表示不设置客户端超时
}

// Client 上游补全客户端，可并发使用
type Client struct {
	config Config
	client oai.Client
}

// NewClient 创建新的客户端，不做任何重试
func NewClient(config Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &Client{
		config: config,
		client: oai.NewClient(opts...),
	}
}

// Model 返回固定模型名称
func (c *Client) Model() string {
	return c.config.Model
}

// Complete 发送消息列表，返回首个候选的消息
func (c *Client) Complete(ctx context.Context, messages []models.Message) (models.Message, error) {
	params := make([]oai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		param, err := toMessageParam(msg)
		if err != nil {
			return models.Message{}, err
		}
		params = append(params, param)
	}

	resp, err := c.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model:    oai.ChatModel(c.config.Model),
		Messages: params,
	})
	if err != nil {
		return models.Message{}, errors.Wrap(err, "调用补全接口失败")
	}
	if len(resp.Choices) == 0 {
		return models.Message{}, ErrNoChoices
	}

	choice := resp.Choices[0].Message
	role := string(choice.Role)
	if role == "" {
		role = models.RoleAssistant
	}
	return models.Message{Role: role, Content: choice.Content}, nil
}

// toMessageParam 角色按原样匹配，不做大小写或空白处理，上游协议无法表达的角色直接报错
func toMessageParam(msg models.Message) (oai.ChatCompletionMessageParamUnion, error) {
	switch msg.Role {
	case models.RoleSystem:
		return oai.SystemMessage(msg.Content), nil
	case models.RoleUser:
		return oai.UserMessage(msg.Content), nil
	case models.RoleAssistant:
		return oai.AssistantMessage(msg.Content), nil
	case "developer":
		return oai.DeveloperMessage(msg.Content), nil
	default:
		return oai.ChatCompletionMessageParamUnion{}, errors.Errorf("不支持的消息角色: %q", msg.Role)
	}
}

var _ models.Completer = (*Client)(nil)
