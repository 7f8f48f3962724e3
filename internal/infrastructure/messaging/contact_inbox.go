package messaging

import (
	"context"

	"github.com/google/uuid"

	"aetherium-books-api/internal/domain/entity"
	"aetherium-books-api/pkg/logger"
	"aetherium-books-api/pkg/metrics"
)

const messageTypeContact = "contact_submitted"

// ContactInbox 将联系表单追加到 Redis Stream，供运营侧异步处理
type ContactInbox struct {
	producer *Producer
	stream   Stream
}

// NewContactInbox 创建收件箱；stream 为空时使用 StreamContactInbox
func NewContactInbox(producer *Producer, stream string) *ContactInbox {
	s := Stream(stream)
	if s == "" {
		s = StreamContactInbox
	}
	return &ContactInbox{producer: producer, stream: s}
}

// Deliver 投递一条联系表单
func (i *ContactInbox) Deliver(ctx context.Context, msg entity.ContactMessage) error {
	m, err := NewMessage(uuid.NewString(), messageTypeContact, msg)
	if err != nil {
		metrics.ContactInboxPublished.WithLabelValues("error").Inc()
		return err
	}
	if rid, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		m.SetMetadata("request_id", rid)
	}
	m.SetMetadata("purpose", string(msg.Purpose))

	if _, err := i.producer.Publish(ctx, i.stream, m); err != nil {
		metrics.ContactInboxPublished.WithLabelValues("error").Inc()
		return err
	}
	metrics.ContactInboxPublished.WithLabelValues("success").Inc()
	return nil
}
