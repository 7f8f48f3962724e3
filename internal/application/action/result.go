// Package action 是面向调用方的边界层：校验输入、调用 flow、把成功或失败统一为 Result。
package action

import (
	apperrors "aetherium-books-api/pkg/errors"
)

// Result 统一的动作响应信封，Data 与 Error 至多其一有值
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`

	code apperrors.ErrorCode
}

// Empty 无数据动作的占位类型
type Empty struct{}

// Ok 成功结果
func Ok[T any](data *T) Result[T] {
	return Result[T]{Success: true, Data: data, code: apperrors.CodeSuccess}
}

// Fail 失败结果，message 必须可直接展示给用户
func Fail[T any](code apperrors.ErrorCode, message string) Result[T] {
	return Result[T]{Success: false, Error: message, code: code}
}

// Code 返回驱动 HTTP 状态码的错误码
func (r Result[T]) Code() apperrors.ErrorCode {
	if r.code == "" {
		if r.Success {
			return apperrors.CodeSuccess
		}
		return apperrors.CodeUnknown
	}
	return r.code
}

// withoutData 去掉无数据动作的占位 Data
func withoutData(r Result[Empty]) Result[Empty] {
	r.Data = nil
	return r
}
