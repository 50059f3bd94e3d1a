package models

// ChatRequest 聊天请求体
type ChatRequest struct {
	Messages []Message `json:"messages" binding:"required"`
}

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error string `json:"error"`
}

// PatternInfo 设计模式目录条目
type PatternInfo struct {
	Name string `json:"name"` // 显示名称
	Path string `json:"path"` // 站点路径
}
