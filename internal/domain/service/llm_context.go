// Package service 提供跨层共享的领域上下文工具
package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyFlow     llmCtxKey = "llm_flow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
)

const unknown = "unknown"

// WithFlow 在 context 中标记当前执行的 prompt flow
func WithFlow(ctx context.Context, flow string) context.Context {
	return withValue(ctx, llmCtxKeyFlow, flow)
}

// WithProvider 在 context 中标记当前使用的模型提供商
func WithProvider(ctx context.Context, provider string) context.Context {
	return withValue(ctx, llmCtxKeyProvider, provider)
}

// WithFlowProvider 同时标记 flow 与提供商，供 eino 回调打标签
func WithFlowProvider(ctx context.Context, flow, provider string) context.Context {
	return WithProvider(WithFlow(ctx, flow), provider)
}

// FlowFromContext 返回当前 flow 名称，缺失时为 "unknown"
func FlowFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyFlow)
}

// ProviderFromContext 返回当前提供商名称，缺失时为 "unknown"
func ProviderFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyProvider)
}

func withValue(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func valueOrUnknown(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknown
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return unknown
	}
	return strings.TrimSpace(s)
}
