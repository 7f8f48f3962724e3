package port

import (
	"context"

	"github.com/cloudwego/eino/components/model"
)

// ChatModelFactory 定义工作流层对 LLM ChatModel 的最小依赖（port）。
// name 为空时由实现选择默认提供商。
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}

// ChatModelFactoryFunc 函数适配器，便于在测试中替换真实提供商
type ChatModelFactoryFunc func(ctx context.Context, name string) (model.BaseChatModel, error)

// Get 实现 ChatModelFactory
func (f ChatModelFactoryFunc) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	return f(ctx, name)
}

// StaticFactory 始终返回同一个 ChatModel
func StaticFactory(m model.BaseChatModel) ChatModelFactory {
	return ChatModelFactoryFunc(func(context.Context, string) (model.BaseChatModel, error) {
		return m, nil
	})
}
