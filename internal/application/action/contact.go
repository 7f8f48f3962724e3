package action

import (
	"context"

	"aetherium-books-api/internal/domain/entity"
	"aetherium-books-api/pkg/logger"
)

// ContactSink 接收每一条通过校验的联系表单
type ContactSink interface {
	Deliver(ctx context.Context, msg entity.ContactMessage) error
}

// LogContactSink 只写日志
type LogContactSink struct{}

func (LogContactSink) Deliver(ctx context.Context, msg entity.ContactMessage) error {
	logger.Info(ctx, "contact form submitted",
		"name", msg.Name,
		"email", msg.Email,
		"purpose", string(msg.Purpose),
		"message", msg.Message,
	)
	return nil
}

// BestEffortSinks 依次投递到所有 sink，失败只记录告警，不影响用户结果
type BestEffortSinks []ContactSink

func (s BestEffortSinks) Deliver(ctx context.Context, msg entity.ContactMessage) error {
	for _, sink := range s {
		if sink == nil {
			continue
		}
		if err := sink.Deliver(ctx, msg); err != nil {
			logger.Warn(ctx, "contact delivery failed", "error", err.Error())
		}
	}
	return nil
}
