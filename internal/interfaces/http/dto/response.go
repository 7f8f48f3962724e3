package dto

import (
	"github.com/gin-gonic/gin"

	apperrors "aetherium-books-api/pkg/errors"
	"aetherium-books-api/pkg/tracer"
)

// ErrorResponse 中间件层错误响应，与动作结果信封保持同形
type ErrorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Code    apperrors.ErrorCode `json:"code,omitempty"`
	TraceID string              `json:"trace_id,omitempty"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ReadinessCheck 单个依赖的就绪状态
type ReadinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// ReadinessResponse 就绪检查响应
type ReadinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*ReadinessCheck `json:"checks,omitempty"`
}

// Abort 中断请求并返回错误响应
func Abort(c *gin.Context, code apperrors.ErrorCode, message string) {
	c.AbortWithStatusJSON(apperrors.StatusOf(code), ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
		TraceID: tracer.TraceID(c.Request.Context()),
	})
}
