package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptChapterGenV1      PromptID = "chapter_gen_v1"
	PromptUrduTranslationV1 PromptID = "urdu_translation_v1"
	PromptBookChatV1        PromptID = "book_chat_v1"
)

// IDs 返回全部已注册的 prompt
func IDs() []PromptID {
	return []PromptID{PromptChapterGenV1, PromptUrduTranslationV1, PromptBookChatV1}
}

// Registry 按 PromptID 缓存已解析的 ChatTemplate。
// 模板为 Go text/template 语法，变量原样插入，不做 HTML 转义。
type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	system, user, err := loadPrompt(id)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

func loadPrompt(id PromptID) (system string, user string, err error) {
	switch id {
	case PromptChapterGenV1, PromptUrduTranslationV1, PromptBookChatV1:
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}

	system, err = readEmbeddedText(fmt.Sprintf("templates/%s.system.txt", id))
	if err != nil {
		return "", "", err
	}
	user, err = readEmbeddedText(fmt.Sprintf("templates/%s.user.txt", id))
	if err != nil {
		return "", "", err
	}
	return system, user, nil
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
