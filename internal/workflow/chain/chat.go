package chain

import (
	"strings"

	"aetherium-books-api/internal/domain/entity"
	wfmodel "aetherium-books-api/internal/workflow/model"
	workflowport "aetherium-books-api/internal/workflow/port"
	workflowprompt "aetherium-books-api/internal/workflow/prompt"
)

const FlowBookChat = "book_chat"

// ChatFlow 基于检索上下文与对话历史回答书籍相关问题
type ChatFlow = PromptFlow[wfmodel.ChatInput, wfmodel.ChatOutput]

func NewChatFlow(factory workflowport.ChatModelFactory, opts Options) *ChatFlow {
	return newPromptFlow[wfmodel.ChatInput, wfmodel.ChatOutput](
		FlowBookChat,
		workflowprompt.PromptBookChatV1,
		"answer",
		factory,
		chatVars,
		opts,
	)
}

func chatVars(in wfmodel.ChatInput) map[string]any {
	history := make([]entity.ChatTurn, len(in.ChatHistory))
	copy(history, in.ChatHistory)
	return map[string]any{
		"retrieved_context": strings.TrimSpace(in.RetrievedContext),
		"chat_history":      history,
		"query":             in.Query,
	}
}
