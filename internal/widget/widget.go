// Package widget 实现聊天小部件的对话状态机
//
// 状态只有 idle 和 submitting 两种：提交时先乐观地追加用户消息，
// 成功后追加助手消息，失败时只记录日志，用户消息保留。
package widget

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"pattern_chat/internal/models"
)

// State 小部件状态
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyInput 输入为空或只有空白
	ErrEmptyInput = errors.New("输入为空")
	// ErrBusy 已有请求在进行中
	ErrBusy = errors.New("已有请求在进行中")
	// ErrNotSubmitting 没有进行中的请求
	ErrNotSubmitting = errors.New("没有进行中的请求")
)

// Sender 把完整对话发送给转发服务
type Sender interface {
	Send(ctx context.Context, messages []models.Message) (models.Message, error)
}

// Widget 单个小部件实例，同一时刻最多一个请求
type Widget struct {
	sender Sender

	mu           sync.Mutex
	conversation []models.Message
	state        State
	lastErr      error
}

// New 创建小部件
func New(sender Sender) *Widget {
	return &Widget{sender: sender}
}

// Submit 提交一条输入并等待回复。空白输入直接忽略并返回 nil。
func (w *Widget) Submit(ctx context.Context, text string) error {
	snapshot, err := w.Begin(text)
	if errors.Is(err, ErrEmptyInput) {
		return nil
	}
	if err != nil {
		return err
	}

	reply, err := w.sender.Send(ctx, snapshot)
	return w.Finish(reply, err)
}

// Begin 追加用户消息并进入 submitting，返回需要发送的对话快照
func (w *Widget) Begin(text string) ([]models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitting {
		return nil, ErrBusy
	}

	// 内容保留原始输入，只用去空白后的结果判断是否为空
	w.conversation = append(w.conversation, models.NewUserMessage(text))
	w.state = StateSubmitting
	w.lastErr = nil

	return w.snapshotLocked(), nil
}

// Finish 结束 submitting。成功时追加助手消息，失败时不追加。
// 没有对应的 Begin 时不改变对话，返回 ErrNotSubmitting。
func (w *Widget) Finish(reply models.Message, err error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateSubmitting {
		return ErrNotSubmitting
	}
	w.state = StateIdle
	if err != nil {
		w.lastErr = err
		log.Warn().Err(err).Int("conversation", len(w.conversation)).Msg("聊天请求失败")
		return err
	}

	w.conversation = append(w.conversation, models.Message{Role: models.RoleAssistant, Content: reply.Content})
	return nil
}

// Conversation 返回对话副本
func (w *Widget) Conversation() []models.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// State 返回当前状态
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Busy 是否有请求在进行中
func (w *Widget) Busy() bool {
	return w.State() == StateSubmitting
}

// LastError 最近一次失败的原因，成功提交后清空
func (w *Widget) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Widget) snapshotLocked() []models.Message {
	out := make([]models.Message, len(w.conversation))
	copy(out, w.conversation)
	return out
}
