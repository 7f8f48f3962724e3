package chain

import (
	wfmodel "aetherium-books-api/internal/workflow/model"
	workflowport "aetherium-books-api/internal/workflow/port"
	workflowprompt "aetherium-books-api/internal/workflow/prompt"
)

const FlowUrduTranslation = "urdu_translation"

// TranslationFlow 英文到乌尔都语翻译
type TranslationFlow = PromptFlow[wfmodel.TranslationInput, wfmodel.TranslationOutput]

func NewTranslationFlow(factory workflowport.ChatModelFactory, opts Options) *TranslationFlow {
	return newPromptFlow[wfmodel.TranslationInput, wfmodel.TranslationOutput](
		FlowUrduTranslation,
		workflowprompt.PromptUrduTranslationV1,
		"translatedText",
		factory,
		func(in wfmodel.TranslationInput) map[string]any {
			// 原文不做裁剪，空白也属于待翻译内容
			return map[string]any{"text": in.Text}
		},
		opts,
	)
}
