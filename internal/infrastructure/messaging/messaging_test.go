package messaging

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aetherium-books-api/internal/domain/entity"
	"aetherium-books-api/pkg/logger"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestContactInbox_Deliver(t *testing.T) {
	rdb := newTestRedis(t)
	inbox := NewContactInbox(NewProducer(rdb, 100), "")

	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-42")
	contact := entity.ContactMessage{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Purpose: entity.ContactPurposeResearch,
		Message: "I would like to collaborate.",
	}
	require.NoError(t, inbox.Deliver(ctx, contact))

	entries, err := rdb.XRange(ctx, string(StreamContactInbox), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, messageTypeContact, entries[0].Values["type"])

	var msg Message
	require.NoError(t, sonic.UnmarshalString(entries[0].Values["data"].(string), &msg))
	assert.Equal(t, "req-42", msg.GetMetadata("request_id"))
	assert.Equal(t, "Research", msg.GetMetadata("purpose"))

	var got entity.ContactMessage
	require.NoError(t, msg.UnmarshalPayload(&got))
	assert.Equal(t, contact, got)
}

func TestProducer_PublishFailsWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	msg, err := NewMessage("id-1", "test", map[string]string{"k": "v"})
	require.NoError(t, err)
	_, err = NewProducer(rdb, 0).Publish(context.Background(), "stream:test", msg)
	assert.ErrorContains(t, err, "failed to publish message")
}

func TestMessage_Metadata(t *testing.T) {
	msg := &Message{}
	msg.SetMetadata("empty", "")
	msg.SetMetadata("k", "v")
	assert.Equal(t, "v", msg.GetMetadata("k"))
	assert.Equal(t, "", msg.GetMetadata("empty"))
	assert.Len(t, msg.Metadata, 1)
}
