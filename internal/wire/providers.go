// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"aetherium-books-api/internal/application/action"
	"aetherium-books-api/internal/config"
	"aetherium-books-api/internal/infrastructure/llm"
	"aetherium-books-api/internal/infrastructure/messaging"
	"aetherium-books-api/internal/infrastructure/persistence/redis"
	"aetherium-books-api/internal/interfaces/http/handler"
	"aetherium-books-api/internal/interfaces/http/middleware"
	"aetherium-books-api/internal/workflow/chain"
	workflowport "aetherium-books-api/internal/workflow/port"
	workflowprompt "aetherium-books-api/internal/workflow/prompt"
	"aetherium-books-api/pkg/logger"
)

// ProvideRedisClient 提供 Redis 客户端，未启用时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		logger.Info(ctx, "redis disabled, rate limiting and contact inbox are off")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 提供 HTTP 限流器，依赖 Redis
func ProvideRateLimiter(cfg *config.Config, client *redis.Client) middleware.RateLimiter {
	if client == nil || !cfg.Security.RateLimit.Enabled {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideContactSink 提供联系表单投递链：日志始终开启，收件箱按开关追加
func ProvideContactSink(ctx context.Context, cfg *config.Config, client *redis.Client) action.ContactSink {
	sinks := action.BestEffortSinks{action.LogContactSink{}}

	feature := cfg.Features.ContactInbox
	if !feature.Enabled {
		return sinks
	}
	if client == nil {
		logger.Warn(ctx, "contact inbox enabled but redis is disabled, falling back to log only")
		return sinks
	}

	producer := messaging.NewProducer(client.Redis(), cfg.Messaging.RedisStream.MaxLen)
	return append(sinks, messaging.NewContactInbox(producer, feature.Stream))
}

// ProvideFlowOptions 提供 prompt flow 公共选项
func ProvideFlowOptions(cfg *config.Config, registry *workflowprompt.Registry) chain.Options {
	return chain.Options{
		Provider:         cfg.LLM.DefaultProvider,
		StructuredOutput: cfg.LLM.StructuredOutput,
		Registry:         registry,
	}
}

// ProvideFlows 组装动作依赖的三个 flow
func ProvideFlows(factory workflowport.ChatModelFactory, opts chain.Options) action.Flows {
	return action.Flows{
		Chapter:     chain.NewChapterFlow(factory, opts),
		Translation: chain.NewTranslationFlow(factory, opts),
		Chat:        chain.NewChatFlow(factory, opts),
	}
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, client *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, client)
}

// ProvideChatModelFactory 提供 LLM 工厂
func ProvideChatModelFactory(cfg *config.Config) *llm.EinoFactory {
	return llm.NewEinoFactory(cfg)
}
