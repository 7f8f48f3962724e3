package action

import (
	"context"
	"fmt"
	"time"

	"aetherium-books-api/internal/application/validation"
	"aetherium-books-api/internal/config"
	"aetherium-books-api/internal/domain/entity"
	wfmodel "aetherium-books-api/internal/workflow/model"
	apperrors "aetherium-books-api/pkg/errors"
	"aetherium-books-api/pkg/logger"
)

// 用户可见的提示文案
const (
	MsgInvalidFormData        = "Invalid form data."
	MsgContactFailed          = "Failed to send message."
	MsgInvalidEmailOrPassword = "Invalid email or password."
	MsgAccountExists          = "An account with this email already exists."
	MsgInvalidCredentials     = "Invalid credentials."
	MsgAuthFailed             = "Authentication is temporarily unavailable."
	MsgInvalidChapterOptions  = "Invalid chapter generation options."
	MsgChapterFailed          = "Failed to generate chapter."
	MsgInvalidTranslation     = "Invalid text for translation."
	MsgTranslationFailed      = "Failed to translate text."
	MsgChatFallback           = "Sorry, an error occurred while processing your request."
)

// 动作名，同时用作日志与指标标签
const (
	ActionSubmitContactForm = "submit_contact_form"
	ActionSignUp            = "sign_up"
	ActionSignIn            = "sign_in"
	ActionAskQuestion       = "ask_question"
	ActionGenerateChapter   = "generate_chapter"
	ActionTranslateToUrdu   = "translate_to_urdu"
)

var (
	contactSchema     = validation.NewSchema[entity.ContactMessage]("contact_form")
	signUpSchema      = validation.NewSchema[SignUpForm]("sign_up")
	signInSchema      = validation.NewSchema[SignInForm]("sign_in")
	chatSchema        = validation.NewSchema[wfmodel.ChatInput]("chat")
	chapterSchema     = validation.NewSchema[wfmodel.ChapterGenerateInput]("chapter_generation")
	translationSchema = validation.NewSchema[wfmodel.TranslationInput]("translation")
)

// Flows 动作依赖的三个 prompt flow
type Flows struct {
	Chapter     Flow[wfmodel.ChapterGenerateInput, wfmodel.ChapterGenerateOutput]
	Translation Flow[wfmodel.TranslationInput, wfmodel.TranslationOutput]
	Chat        Flow[wfmodel.ChatInput, wfmodel.ChatOutput]
}

// Delays 模拟的处理延迟
type Delays struct {
	Contact time.Duration
	SignUp  time.Duration
	SignIn  time.Duration
}

// DelaysFromConfig 从配置读取延迟
func DelaysFromConfig(cfg *config.Config) Delays {
	return Delays{
		Contact: cfg.Actions.Delays.Contact,
		SignUp:  cfg.Actions.Delays.SignUp,
		SignIn:  cfg.Actions.Delays.SignIn,
	}
}

// Service 暴露全部动作
type Service struct {
	flows    Flows
	identity IdentityProvider
	contacts ContactSink
	delays   Delays
}

// NewService 创建动作服务
func NewService(flows Flows, identity IdentityProvider, contacts ContactSink, delays Delays) *Service {
	if contacts == nil {
		contacts = LogContactSink{}
	}
	return &Service{
		flows:    flows,
		identity: identity,
		contacts: contacts,
		delays:   delays,
	}
}

// SubmitContactForm 校验联系表单并投递
func (s *Service) SubmitContactForm(ctx context.Context, raw any) Result[Empty] {
	return withoutData(Execute(ctx, raw, Spec[entity.ContactMessage, Empty]{
		Name:           ActionSubmitContactForm,
		Schema:         contactSchema,
		Flow:           FlowFunc[entity.ContactMessage, Empty](s.submitContact),
		InvalidMessage: MsgInvalidFormData,
		FailureMessage: MsgContactFailed,
	}))
}

func (s *Service) submitContact(ctx context.Context, msg entity.ContactMessage) (*Empty, error) {
	if err := s.contacts.Deliver(ctx, msg); err != nil {
		return nil, err
	}
	if err := sleep(ctx, s.delays.Contact); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

// SignUp 模拟注册
func (s *Service) SignUp(ctx context.Context, raw any) Result[Empty] {
	return withoutData(Execute(ctx, raw, Spec[SignUpForm, Empty]{
		Name:           ActionSignUp,
		Schema:         signUpSchema,
		Flow:           FlowFunc[SignUpForm, Empty](s.signUp),
		InvalidMessage: MsgInvalidEmailOrPassword,
		FailureMessage: MsgAuthFailed,
	}))
}

func (s *Service) signUp(ctx context.Context, form SignUpForm) (*Empty, error) {
	logger.Info(ctx, "signing up user", "email", form.Email)
	if err := sleep(ctx, s.delays.SignUp); err != nil {
		return nil, err
	}
	if s.identity == nil {
		return nil, fmt.Errorf("identity provider not configured")
	}

	exists, err := s.identity.Exists(ctx, form.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.New(apperrors.CodeAccountExists, MsgAccountExists)
	}
	return &Empty{}, nil
}

// SignIn 模拟登录
func (s *Service) SignIn(ctx context.Context, raw any) Result[Empty] {
	return withoutData(Execute(ctx, raw, Spec[SignInForm, Empty]{
		Name:           ActionSignIn,
		Schema:         signInSchema,
		Flow:           FlowFunc[SignInForm, Empty](s.signIn),
		InvalidMessage: MsgInvalidFormData,
		FailureMessage: MsgAuthFailed,
	}))
}

func (s *Service) signIn(ctx context.Context, form SignInForm) (*Empty, error) {
	logger.Info(ctx, "signing in user", "email", form.Email)
	if err := sleep(ctx, s.delays.SignIn); err != nil {
		return nil, err
	}
	if s.identity == nil {
		return nil, fmt.Errorf("identity provider not configured")
	}

	ok, err := s.identity.Authenticate(ctx, form.Email, form.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.New(apperrors.CodeInvalidCredentials, MsgInvalidCredentials)
	}
	return &Empty{}, nil
}

// FallbackAnswer 问答失败时的固定回答
func FallbackAnswer() AskResult {
	fallback := MsgChatFallback
	return AskResult{Answer: &fallback}
}

// AskQuestion 回答关于书籍章节的问题。query 与回答都原样传递，空串也不例外；
// 任何失败都返回固定的兜底回答，从不报错。
func (s *Service) AskQuestion(ctx context.Context, history []entity.ChatTurn, query string) AskResult {
	r := Execute(ctx, wfmodel.ChatInput{Query: query, ChatHistory: history}, Spec[wfmodel.ChatInput, wfmodel.ChatOutput]{
		Name:           ActionAskQuestion,
		Schema:         chatSchema,
		Flow:           s.flows.Chat,
		InvalidMessage: MsgChatFallback,
		FailureMessage: MsgChatFallback,
	})
	if !r.Success {
		return FallbackAnswer()
	}
	return AskResult{Answer: r.Data.Answer}
}

// GenerateChapter 个性化章节生成
func (s *Service) GenerateChapter(ctx context.Context, raw any) Result[wfmodel.ChapterGenerateOutput] {
	return Execute(ctx, raw, Spec[wfmodel.ChapterGenerateInput, wfmodel.ChapterGenerateOutput]{
		Name:           ActionGenerateChapter,
		Schema:         chapterSchema,
		Flow:           s.flows.Chapter,
		InvalidMessage: MsgInvalidChapterOptions,
		FailureMessage: MsgChapterFailed,
	})
}

// TranslateToUrdu 英译乌尔都语
func (s *Service) TranslateToUrdu(ctx context.Context, raw any) Result[wfmodel.TranslationOutput] {
	return Execute(ctx, raw, Spec[wfmodel.TranslationInput, wfmodel.TranslationOutput]{
		Name:           ActionTranslateToUrdu,
		Schema:         translationSchema,
		Flow:           s.flows.Translation,
		InvalidMessage: MsgInvalidTranslation,
		FailureMessage: MsgTranslationFailed,
	})
}

// sleep 等待 d，context 取消时提前返回
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
