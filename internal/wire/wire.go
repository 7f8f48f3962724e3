//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"aetherium-books-api/internal/application/action"
	"aetherium-books-api/internal/config"
	"aetherium-books-api/internal/infrastructure/llm"
	"aetherium-books-api/internal/interfaces/http/handler"
	"aetherium-books-api/internal/interfaces/http/router"
	workflowport "aetherium-books-api/internal/workflow/port"
	workflowprompt "aetherium-books-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		InfraSet,
		WorkflowSet,
		ActionSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InfraSet Redis 及其派生组件
var InfraSet = wire.NewSet(
	ProvideRedisClient,
	ProvideRateLimiter,
	ProvideContactSink,
)

// WorkflowSet LLM 与 prompt flow
var WorkflowSet = wire.NewSet(
	ProvideChatModelFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	workflowprompt.NewRegistry,
	ProvideFlowOptions,
	ProvideFlows,
)

// ActionSet 动作服务
var ActionSet = wire.NewSet(
	action.NewMockIdentity,
	wire.Bind(new(action.IdentityProvider), new(*action.MockIdentity)),
	action.DelaysFromConfig,
	action.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewActionHandler,
	ProvideHealthHandler,
	router.New,
)
