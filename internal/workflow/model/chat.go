package model

import "aetherium-books-api/internal/domain/entity"

// ChatInput 书籍问答输入。Query 原样转发，空串也交给模型。
type ChatInput struct {
	Query            string            `json:"query"`
	ChatHistory      []entity.ChatTurn `json:"chatHistory,omitempty" validate:"omitempty,dive"`
	RetrievedContext string            `json:"retrievedContext,omitempty"`
}

// ChatOutput 问答结果。Answer 为 nil 视为违反输出契约。
type ChatOutput struct {
	Answer *string `json:"answer" validate:"required"`
}
