package chain

import (
	"strings"

	wfmodel "aetherium-books-api/internal/workflow/model"
	workflowport "aetherium-books-api/internal/workflow/port"
	workflowprompt "aetherium-books-api/internal/workflow/prompt"
)

const FlowChapterGenerate = "chapter_generate"

// ChapterFlow 按读者画像生成 markdown 章节
type ChapterFlow = PromptFlow[wfmodel.ChapterGenerateInput, wfmodel.ChapterGenerateOutput]

func NewChapterFlow(factory workflowport.ChatModelFactory, opts Options) *ChapterFlow {
	return newPromptFlow[wfmodel.ChapterGenerateInput, wfmodel.ChapterGenerateOutput](
		FlowChapterGenerate,
		workflowprompt.PromptChapterGenV1,
		"chapterContent",
		factory,
		chapterVars,
		opts,
	)
}

func chapterVars(in wfmodel.ChapterGenerateInput) map[string]any {
	return map[string]any{
		"user_reading_level":    strings.TrimSpace(wfmodel.Deref(in.UserReadingLevel)),
		"preferred_language":    strings.TrimSpace(wfmodel.Deref(in.PreferredLanguage)),
		"topic_interest":        strings.TrimSpace(wfmodel.Deref(in.TopicInterest)),
		"previous_interactions": strings.TrimSpace(wfmodel.Deref(in.PreviousInteractions)),
	}
}
