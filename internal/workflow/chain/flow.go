package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"aetherium-books-api/internal/application/validation"
	llmctx "aetherium-books-api/internal/domain/service"
	wfnode "aetherium-books-api/internal/workflow/node"
	workflowport "aetherium-books-api/internal/workflow/port"
	workflowprompt "aetherium-books-api/internal/workflow/prompt"
	"aetherium-books-api/pkg/logger"
)

var (
	// ErrEmptyResponse 模型未返回任何内容
	ErrEmptyResponse = errors.New("empty llm response")
	// ErrOutputContract 模型输出不满足 flow 声明的输出结构
	ErrOutputContract = errors.New("llm output violates flow contract")
)

// Options 构造 flow 的公共选项
type Options struct {
	// Provider 使用的模型提供商，空值表示工厂默认提供商
	Provider string
	// StructuredOutput 为 true 时通过 response_format 传递 JSON Schema（需提供商支持）
	StructuredOutput bool
	// Registry 为 nil 时使用包级默认 registry
	Registry *workflowprompt.Registry
}

// PromptFlow 将一个 prompt 模板与输入/输出契约绑定：
// 渲染模板 -> 调用模型一次 -> 抽取 JSON -> 按输出契约解码校验。
// 不重试、不降级，模型错误原样向上传递。
type PromptFlow[In, Out any] struct {
	name        string
	promptID    workflowprompt.PromptID
	outputField string
	factory     workflowport.ChatModelFactory
	vars        func(In) map[string]any
	output      *validation.Schema[Out]
	opts        Options

	chainOnce sync.Once
	chain     compose.Runnable[In, *Out]
	chainErr  error
}

var defaultPromptRegistry = workflowprompt.NewRegistry()

func newPromptFlow[In, Out any](
	name string,
	promptID workflowprompt.PromptID,
	outputField string,
	factory workflowport.ChatModelFactory,
	vars func(In) map[string]any,
	opts Options,
) *PromptFlow[In, Out] {
	if opts.Registry == nil {
		opts.Registry = defaultPromptRegistry
	}
	return &PromptFlow[In, Out]{
		name:        name,
		promptID:    promptID,
		outputField: outputField,
		factory:     factory,
		vars:        vars,
		output:      validation.NewSchema[Out](name + "_output"),
		opts:        opts,
	}
}

// Name 返回 flow 名称
func (f *PromptFlow[In, Out]) Name() string {
	return f.name
}

// Run 执行一次 flow
func (f *PromptFlow[In, Out]) Run(ctx context.Context, in In) (*Out, error) {
	if f == nil || f.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}

	chain, err := f.getChain()
	if err != nil {
		return nil, err
	}
	ctx = llmctx.WithFlowProvider(ctx, f.name, f.providerLabel())
	return chain.Invoke(ctx, in)
}

// Messages 渲染 prompt 但不调用模型
func (f *PromptFlow[In, Out]) Messages(ctx context.Context, in In) ([]*schema.Message, error) {
	tpl, err := f.opts.Registry.ChatTemplate(f.promptID)
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, f.vars(in))
}

func (f *PromptFlow[In, Out]) getChain() (compose.Runnable[In, *Out], error) {
	f.chainOnce.Do(func() {
		f.chain, f.chainErr = f.buildChain(context.Background())
	})
	return f.chain, f.chainErr
}

func (f *PromptFlow[In, Out]) buildChain(ctx context.Context) (compose.Runnable[In, *Out], error) {
	chain := compose.NewChain[In, *Out]()

	chain.AppendLambda(
		compose.InvokableLambda(f.Messages),
		compose.WithNodeKey(f.name+".template"),
		compose.WithNodeName(f.name+".template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(f.generate),
		compose.WithNodeKey(f.name+".llm"),
		compose.WithNodeName(f.name+".llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(f.decode),
		compose.WithNodeKey(f.name+".decode"),
		compose.WithNodeName(f.name+".decode"),
	)

	return chain.Compile(ctx, compose.WithGraphName(f.name))
}

func (f *PromptFlow[In, Out]) generate(ctx context.Context, msgs []*schema.Message) (*schema.Message, error) {
	ctx = llmctx.WithFlowProvider(ctx, f.name, f.providerLabel())
	chatModel, err := f.factory.Get(ctx, strings.TrimSpace(f.opts.Provider))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}

	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      f.name,
		Type:      f.providerLabel(),
		Component: components.ComponentOfChatModel,
	})

	outMsg, err := chatModel.Generate(ctx, msgs, f.modelOptions()...)
	if err != nil {
		if f.opts.StructuredOutput && wfnode.IsResponseFormatUnsupportedError(err) {
			logger.Warn(ctx, "llm provider rejected structured output; disable llm.structured_output for it",
				"flow", f.name,
				"provider", f.providerLabel(),
				"error", err.Error(),
			)
		}
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	if outMsg == nil || strings.TrimSpace(outMsg.Content) == "" {
		return nil, fmt.Errorf("%s: %w", f.name, ErrEmptyResponse)
	}

	if usage := usageOf(outMsg); usage != nil {
		logger.Debug(ctx, "llm generate done",
			"flow", f.name,
			"prompt_tokens", usage.PromptTokens,
			"completion_tokens", usage.CompletionTokens,
		)
	}
	return outMsg, nil
}

func (f *PromptFlow[In, Out]) decode(ctx context.Context, msg *schema.Message) (*Out, error) {
	raw := wfnode.ExtractJSONObject(msg.Content)
	parsed, failure := f.output.Parse(raw)
	if failure != nil {
		logger.Debug(ctx, "llm output rejected",
			"flow", f.name,
			"violations", failure.Error(),
			"content_preview", wfnode.Preview(msg.Content, 200),
		)
		return nil, fmt.Errorf("%s: %w: %s", f.name, ErrOutputContract, failure.Error())
	}
	out := parsed.Value()
	return &out, nil
}

func (f *PromptFlow[In, Out]) modelOptions() []model.Option {
	if !f.opts.StructuredOutput {
		return nil
	}
	return []model.Option{
		openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   f.name,
					"strict": true,
					"schema": singleStringFieldSchema(f.outputField),
				},
			},
		}),
	}
}

func (f *PromptFlow[In, Out]) providerLabel() string {
	if p := strings.TrimSpace(f.opts.Provider); p != "" {
		return p
	}
	return "default"
}

func singleStringFieldSchema(field string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{field},
		"properties": map[string]any{
			field: map[string]any{"type": "string"},
		},
	}
}

func usageOf(msg *schema.Message) *schema.TokenUsage {
	if msg == nil || msg.ResponseMeta == nil {
		return nil
	}
	return msg.ResponseMeta.Usage
}
