// Package patterns 维护站点支持的设计模式目录以及由其派生的系统提示词
package patterns

import (
	"strings"

	"pattern_chat/internal/models"
)

// Pattern 设计模式条目
type Pattern struct {
	Name string // 主题名称，同时用于系统提示词
	Path string // 站点文章路径
}

// catalogue 顺序与站点侧边栏一致
var catalogue = []Pattern{
	{Name: "Event Aggregator", Path: "/aggregator"},
	{Name: "API Gateway", Path: "/api-gateway"},
	{Name: "Saga", Path: "/saga"},
	{Name: "Circuit Breaker", Path: "/circuit-breaker"},
	{Name: "Distributed Tracing", Path: "/distributed-tracing"},
	{Name: "Idempotent Consumer", Path: "/idempotent-consumer"},
	{Name: "Log Aggregation", Path: "/log-aggregation"},
	{Name: "Factory", Path: "/factory"},
	{Name: "Builder", Path: "/builder"},
	{Name: "Facade", Path: "/facade"},
	{Name: "Strategy", Path: "/strategy"},
}

const (
	promptPrefix = "You are an AI assistant specialized in design patterns. " +
		"You can only answer questions about the following design patterns: "
	promptSuffix = ". If asked about any other topic, politely redirect the user to ask about one of these patterns."
)

var systemPrompt = buildSystemPrompt(catalogue)

// All 返回目录副本
func All() []Pattern {
	out := make([]Pattern, len(catalogue))
	copy(out, catalogue)
	return out
}

// Names 返回全部主题名称
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for _, p := range catalogue {
		names = append(names, p.Name)
	}
	return names
}

// Infos 返回用于 HTTP 输出的目录
func Infos() []models.PatternInfo {
	infos := make([]models.PatternInfo, 0, len(catalogue))
	for _, p := range catalogue {
		infos = append(infos, models.PatternInfo{Name: p.Name, Path: p.Path})
	}
	return infos
}

// SystemPrompt 返回固定的系统提示词
func SystemPrompt() string {
	return systemPrompt
}

// SystemMessage 返回固定的系统消息
func SystemMessage() models.Message {
	return models.NewSystemMessage(systemPrompt)
}

// buildSystemPrompt 以 "A, B, ..., and Z" 形式列出全部主题
func buildSystemPrompt(list []Pattern) string {
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
	}

	var b strings.Builder
	b.WriteString(promptPrefix)
	switch len(names) {
	case 0:
	case 1:
		b.WriteString(names[0])
	default:
		b.WriteString(strings.Join(names[:len(names)-1], ", "))
		b.WriteString(", and ")
		b.WriteString(names[len(names)-1])
	}
	b.WriteString(promptSuffix)
	return b.String()
}
