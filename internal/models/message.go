package models

// 消息角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 对话消息，创建后不可修改
type Message struct {
	Role    string `json:"role"`    // 消息角色：system/user/assistant
	Content string `json:"content"` // 消息内容
}

// NewUserMessage 创建用户消息
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewSystemMessage 创建系统消息
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}
