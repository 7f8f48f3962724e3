package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"aetherium-books-api/internal/config"
	"aetherium-books-api/internal/infrastructure/persistence/redis"
	"aetherium-books-api/internal/interfaces/http/dto"
	"aetherium-books-api/pkg/errors"
	"aetherium-books-api/pkg/logger"
	"aetherium-books-api/pkg/metrics"
)

const (
	// RateLimitLimitHeader 窗口内配额
	RateLimitLimitHeader = "X-RateLimit-Limit"
	// RateLimitRemainingHeader 窗口内剩余配额
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

// RateLimit 按客户端 IP 与路由的滑动窗口限流中间件
func RateLimit(cfg config.RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.Limit <= 0 {
		cfg.Limit = 60
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := redis.BuildRateLimitKey(c.ClientIP(), path)

		allowed, remaining, err := limiter.Allow(c.Request.Context(), key, cfg.Limit, cfg.Window)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		c.Header(RateLimitLimitHeader, strconv.Itoa(cfg.Limit))
		c.Header(RateLimitRemainingHeader, strconv.Itoa(remaining))

		if !allowed {
			metrics.RateLimitRejected.WithLabelValues(path).Inc()
			dto.Abort(c, errors.CodeTooManyRequests, "Too many requests. Please try again later.")
			return
		}

		c.Next()
	}
}
