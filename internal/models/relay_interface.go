package models

import "context"

// Completer 上游补全接口
type Completer interface {
	// Complete 发送完整消息列表，返回首个候选回复
	Complete(ctx context.Context, messages []Message) (Message, error)
}

// ChatRelay 聊天转发服务接口
type ChatRelay interface {
	// HandleChat 在调用方消息前追加系统消息并转发到上游
	HandleChat(ctx context.Context, messages []Message) (Message, error)
}
