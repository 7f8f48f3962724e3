// Package model 定义各 prompt flow 的输入/输出契约。
// 字符串字段用指针区分“缺失/null”与空串：空串合法，缺失不合法。
package model

// ChapterGenerateInput 个性化章节生成输入
type ChapterGenerateInput struct {
	UserReadingLevel     *string `json:"userReadingLevel" validate:"required"`
	PreferredLanguage    *string `json:"preferredLanguage" validate:"required"`
	TopicInterest        *string `json:"topicInterest" validate:"required"`
	PreviousInteractions *string `json:"previousInteractions,omitempty"`
}

// ChapterGenerateOutput 章节内容（markdown），允许为空串
type ChapterGenerateOutput struct {
	ChapterContent *string `json:"chapterContent" validate:"required"`
}

// Deref 取指针值，nil 视为空串
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
