package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aetherium-books-api/internal/application/action"
	"aetherium-books-api/internal/config"
	"aetherium-books-api/internal/domain/entity"
	"aetherium-books-api/internal/infrastructure/messaging"
)

func baseConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "aetherium-books-api"
	cfg.App.Version = "test"
	cfg.LLM.DefaultProvider = "openai"
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-test", BaseURL: "http://127.0.0.1:1/v1", Model: "gpt-4o-mini"},
	}
	return cfg
}

func withMiniredis(t *testing.T, cfg *config.Config) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Cache.Redis.Enabled = true
	cfg.Cache.Redis.Host = mr.Host()
	cfg.Cache.Redis.Port = port
	return mr
}

func TestProvideRedisClient_Disabled(t *testing.T) {
	client, cleanup, err := ProvideRedisClient(context.Background(), baseConfig())
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, client)
	assert.Nil(t, ProvideRateLimiter(baseConfig(), client))
}

func TestProvideContactSink(t *testing.T) {
	ctx := context.Background()
	msg := entity.ContactMessage{
		Name:    "Ada",
		Email:   "ada@example.com",
		Purpose: entity.ContactPurposeFeedback,
		Message: "The chapter on transformers was great.",
	}

	t.Run("inbox disabled", func(t *testing.T) {
		sink := ProvideContactSink(ctx, baseConfig(), nil)
		require.IsType(t, action.BestEffortSinks{}, sink)
		assert.Len(t, sink.(action.BestEffortSinks), 1)
		assert.NoError(t, sink.Deliver(ctx, msg))
	})

	t.Run("inbox without redis", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Features.ContactInbox.Enabled = true
		sink := ProvideContactSink(ctx, cfg, nil)
		assert.Len(t, sink.(action.BestEffortSinks), 1)
	})

	t.Run("inbox on redis", func(t *testing.T) {
		cfg := baseConfig()
		withMiniredis(t, cfg)
		cfg.Features.ContactInbox.Enabled = true

		client, cleanup, err := ProvideRedisClient(ctx, cfg)
		require.NoError(t, err)
		defer cleanup()

		sink := ProvideContactSink(ctx, cfg, client)
		assert.Len(t, sink.(action.BestEffortSinks), 2)
		require.NoError(t, sink.Deliver(ctx, msg))

		entries, err := client.Redis().XRange(ctx, string(messaging.StreamContactInbox), "-", "+").Result()
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestProvideRateLimiter(t *testing.T) {
	cfg := baseConfig()
	withMiniredis(t, cfg)
	client, cleanup, err := ProvideRedisClient(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, ProvideRateLimiter(cfg, client))

	cfg.Security.RateLimit.Enabled = true
	assert.NotNil(t, ProvideRateLimiter(cfg, client))
}

func TestInitializeApp(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r, cleanup, err := InitializeApp(context.Background(), baseConfig())
	require.NoError(t, err)
	defer cleanup()

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"test"`)
}
