package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"pattern_chat/internal/config"
	"pattern_chat/internal/metrics"
	"pattern_chat/internal/models"
	"pattern_chat/internal/patterns"
)

// 转发错误
var (
	// ErrUpstream 上游调用未成功，不区分网络错误、上游错误和响应格式错误
	ErrUpstream = errors.New("上游调用失败")
	// ErrInvalidRequest 请求不满足转发限制
	ErrInvalidRequest = errors.New("请求无效")
)

// RelayService 无状态的聊天转发服务
type RelayService struct {
	completer models.Completer
	model     string
	limits    config.RelayConfig
	metrics   *metrics.Collector
	system    models.Message
}

// NewRelayService 创建转发服务，collector 可以为 nil
func NewRelayService(completer models.Completer, model string, limits config.RelayConfig, collector *metrics.Collector) *RelayService {
	return &RelayService{
		completer: completer,
		model:     model,
		limits:    limits,
		metrics:   collector,
		system:    patterns.SystemMessage(),
	}
}

// HandleChat 在调用方消息前追加系统消息并转发到上游，返回首个候选回复
func (s *RelayService) HandleChat(ctx context.Context, messages []models.Message) (models.Message, error) {
	if err := s.validate(messages); err != nil {
		return models.Message{}, err
	}

	upstream := BuildUpstreamMessages(s.system, messages)

	start := time.Now()
	reply, err := s.completer.Complete(ctx, upstream)
	elapsed := time.Since(start)
	s.metrics.ObserveUpstream(s.model, err, elapsed)

	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("model", s.model).
			Int("messages", len(messages)).
			Dur("elapsed", elapsed).
			Msg("转发聊天请求失败")
		return models.Message{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	log.Ctx(ctx).Debug().
		Str("model", s.model).
		Int("messages", len(messages)).
		Dur("elapsed", elapsed).
		Msg("转发聊天请求完成")
	return reply, nil
}

// BuildUpstreamMessages 返回 [system] + messages 的新切片，不修改调用方切片
func BuildUpstreamMessages(system models.Message, messages []models.Message) []models.Message {
	upstream := make([]models.Message, 0, len(messages)+1)
	upstream = append(upstream, system)
	return append(upstream, messages...)
}

// validate 只检查非空和配置的上限，不校验角色
func (s *RelayService) validate(messages []models.Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: messages不能为空", ErrInvalidRequest)
	}
	if s.limits.MaxMessages > 0 && len(messages) > s.limits.MaxMessages {
		return fmt.Errorf("%w: 消息数%d超过上限%d", ErrInvalidRequest, len(messages), s.limits.MaxMessages)
	}
	if s.limits.MaxContentLength > 0 {
		for i, msg := range messages {
			if n := utf8.RuneCountInString(msg.Content); n > s.limits.MaxContentLength {
				return fmt.Errorf("%w: 第%d条消息长度%d超过上限%d", ErrInvalidRequest, i+1, n, s.limits.MaxContentLength)
			}
		}
	}
	return nil
}

var _ models.ChatRelay = (*RelayService)(nil)
