package model

// TranslationInput 英译乌尔都语输入
type TranslationInput struct {
	Text string `json:"text" validate:"required,min=1"`
}

// TranslationOutput 翻译结果，允许为空串
type TranslationOutput struct {
	TranslatedText *string `json:"translatedText" validate:"required"`
}
