// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/bytedance/sonic"

	"aetherium-books-api/internal/domain/entity"
)

// AskRequest 书籍问答请求。Query 为 nil 表示请求体缺少 query。
type AskRequest struct {
	ChatHistory []entity.ChatTurn `json:"chatHistory"`
	Query       *string           `json:"query"`
}

// DecodeAskRequest 解析问答请求体，解析失败时返回零值请求
func DecodeAskRequest(body []byte) (AskRequest, error) {
	var req AskRequest
	if len(body) == 0 {
		return req, nil
	}
	if err := sonic.Unmarshal(body, &req); err != nil {
		return AskRequest{}, err
	}
	return req, nil
}
