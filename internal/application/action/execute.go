package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"aetherium-books-api/internal/application/validation"
	apperrors "aetherium-books-api/pkg/errors"
	"aetherium-books-api/pkg/logger"
	"aetherium-books-api/pkg/metrics"
	"aetherium-books-api/pkg/tracer"
)

// Flow 动作调用的下游处理，prompt flow 与进程内的 mock 流程都实现它
type Flow[In, Out any] interface {
	Run(ctx context.Context, in In) (*Out, error)
}

// FlowFunc 函数适配器
type FlowFunc[In, Out any] func(ctx context.Context, in In) (*Out, error)

// Run 实现 Flow
func (f FlowFunc[In, Out]) Run(ctx context.Context, in In) (*Out, error) {
	return f(ctx, in)
}

// Spec 描述一个动作
type Spec[In, Out any] struct {
	Name           string
	Schema         *validation.Schema[In]
	Flow           Flow[In, Out]
	InvalidMessage string
	FailureMessage string
}

const (
	outcomeSuccess  = "success"
	outcomeInvalid  = "invalid"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Execute 校验 raw，通过后恰好调用一次 flow，并把所有结局归一为 Result。
// 它从不 panic，也不重试。
func Execute[In, Out any](ctx context.Context, raw any, spec Spec[In, Out]) Result[Out] {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "action."+spec.Name)
	defer span.End()
	ctx = logger.WithContext(ctx, logger.ActionKey, spec.Name)

	result, outcome := execute(ctx, raw, spec)
	span.SetAttributes(attribute.String("action.outcome", outcome))

	metrics.ActionsTotal.WithLabelValues(spec.Name, outcome).Inc()
	metrics.ActionDuration.WithLabelValues(spec.Name).Observe(time.Since(start).Seconds())
	return result
}

func execute[In, Out any](ctx context.Context, raw any, spec Spec[In, Out]) (Result[Out], string) {
	validated, failure := spec.Schema.Parse(raw)
	if failure != nil {
		logger.Debug(ctx, "action input rejected",
			"schema", failure.Schema,
			"fields", failure.Fields(),
			"violations", failure.Error(),
		)
		return Fail[Out](apperrors.CodeInvalidParam, spec.InvalidMessage), outcomeInvalid
	}

	out, err := runOnce(ctx, spec.Flow, validated.Value())
	if err != nil {
		// flow 返回的 AppError 是业务拒绝，消息原样给用户
		var rejection *apperrors.AppError
		if errors.As(err, &rejection) {
			return Fail[Out](rejection.Code, rejection.Message), outcomeRejected
		}
		failed := apperrors.Wrap(err, apperrors.CodeGenerationFailed, spec.FailureMessage)
		logger.Error(ctx, "action flow failed", failed)
		return Fail[Out](failed.Code, failed.Message), outcomeFailed
	}
	if out == nil {
		logger.Error(ctx, "action flow returned no output", nil)
		return Fail[Out](apperrors.CodeGenerationFailed, spec.FailureMessage), outcomeFailed
	}
	return Ok(out), outcomeSuccess
}

func runOnce[In, Out any](ctx context.Context, flow Flow[In, Out], in In) (out *Out, err error) {
	if flow == nil {
		return nil, fmt.Errorf("flow not configured")
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("flow panicked: %v", r)
		}
	}()
	return flow.Run(ctx, in)
}
