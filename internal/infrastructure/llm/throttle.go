package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// Throttle 在所有提供商调用之前做进程级令牌桶限流。nil 表示不限流。
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle 创建限流器，rps <= 0 时返回 nil
func NewThrottle(rps float64, burst int) *Throttle {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wrap 为 ChatModel 加上限流；t 为 nil 时原样返回
func (t *Throttle) Wrap(m model.BaseChatModel) model.BaseChatModel {
	if t == nil || m == nil {
		return m
	}
	return &throttledChatModel{inner: m, limiter: t.limiter}
}

type throttledChatModel struct {
	inner   model.BaseChatModel
	limiter *rate.Limiter
}

func (m *throttledChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("llm throttle: %w", err)
	}
	return m.inner.Generate(ctx, input, opts...)
}

func (m *throttledChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("llm throttle: %w", err)
	}
	return m.inner.Stream(ctx, input, opts...)
}

// IsCallbacksEnabled 透传底层模型的回调能力
func (m *throttledChatModel) IsCallbacksEnabled() bool {
	if c, ok := m.inner.(components.Checker); ok {
		return c.IsCallbacksEnabled()
	}
	return false
}

// GetType 透传底层模型类型
func (m *throttledChatModel) GetType() string {
	if t, ok := m.inner.(components.Typer); ok {
		return t.GetType()
	}
	return "Throttled"
}
