// Package entity 定义领域实体
package entity

// ChatRole 对话角色
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatTurn 一轮对话。切片顺序即时间顺序，转发给模型时原样保留。
type ChatTurn struct {
	Role    ChatRole `json:"role" mapstructure:"role" validate:"required,oneof=user assistant"`
	Content string   `json:"content" mapstructure:"content"`
}

// NewChatTurn 创建对话轮次
func NewChatTurn(role ChatRole, content string) ChatTurn {
	return ChatTurn{Role: role, Content: content}
}
