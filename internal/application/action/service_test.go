package action

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aetherium-books-api/internal/application/validation"
	"aetherium-books-api/internal/domain/entity"
	wfmodel "aetherium-books-api/internal/workflow/model"
	apperrors "aetherium-books-api/pkg/errors"
)

// countingFlow 记录调用次数，按需返回结果、错误或 panic
type countingFlow[In, Out any] struct {
	calls  atomic.Int32
	out    *Out
	err    error
	panicV any
	lastIn In
}

func (f *countingFlow[In, Out]) Run(_ context.Context, in In) (*Out, error) {
	f.calls.Add(1)
	f.lastIn = in
	if f.panicV != nil {
		panic(f.panicV)
	}
	return f.out, f.err
}

func ptr[T any](v T) *T { return &v }

type recordingSink struct {
	got []entity.ContactMessage
	err error
}

func (s *recordingSink) Deliver(_ context.Context, msg entity.ContactMessage) error {
	s.got = append(s.got, msg)
	return s.err
}

func demoIdentity() *MockIdentity {
	return &MockIdentity{
		Email:         "alo450843@gmail.com",
		Password:      "password123",
		ExistingEmail: "exists@example.com",
	}
}

func newTestService(flows Flows, sink ContactSink) *Service {
	return NewService(flows, demoIdentity(), sink, Delays{})
}

func TestGenerateChapter_InvalidInputNeverInvokesFlow(t *testing.T) {
	flow := &countingFlow[wfmodel.ChapterGenerateInput, wfmodel.ChapterGenerateOutput]{
		out: &wfmodel.ChapterGenerateOutput{ChapterContent: ptr("# x")},
	}
	svc := newTestService(Flows{Chapter: flow}, nil)

	inputs := []any{
		nil,
		map[string]any{"userReadingLevel": "beginner"},
		map[string]any{"userReadingLevel": nil, "preferredLanguage": "English", "topicInterest": "AI"},
		map[string]any{"userReadingLevel": 3, "preferredLanguage": "English", "topicInterest": "AI"},
		[]byte(`{"preferredLanguage":"English","topicInterest":"AI"}`),
		[]byte(`{not json`),
	}
	for _, raw := range inputs {
		r := svc.GenerateChapter(context.Background(), raw)
		assert.False(t, r.Success)
		assert.Nil(t, r.Data)
		assert.Equal(t, MsgInvalidChapterOptions, r.Error)
		assert.Equal(t, apperrors.CodeInvalidParam, r.Code())
	}
	assert.Zero(t, flow.calls.Load())
}

func TestGenerateChapter_SuccessPassesOutputThrough(t *testing.T) {
	want := &wfmodel.ChapterGenerateOutput{ChapterContent: ptr("## Agents\n\nBody")}
	flow := &countingFlow[wfmodel.ChapterGenerateInput, wfmodel.ChapterGenerateOutput]{out: want}
	svc := newTestService(Flows{Chapter: flow}, nil)

	r := svc.GenerateChapter(context.Background(), map[string]any{
		"userReadingLevel":  "advanced",
		"preferredLanguage": "Urdu",
		"topicInterest":     "robotics",
	})
	require.True(t, r.Success)
	assert.Same(t, want, r.Data)
	assert.Empty(t, r.Error)
	assert.Equal(t, int32(1), flow.calls.Load())
	require.NotNil(t, flow.lastIn.TopicInterest)
	assert.Equal(t, "robotics", *flow.lastIn.TopicInterest)
	assert.Nil(t, flow.lastIn.PreviousInteractions)
}

func TestGenerateChapter_EmptyStringsAreValid(t *testing.T) {
	flow := &countingFlow[wfmodel.ChapterGenerateInput, wfmodel.ChapterGenerateOutput]{
		out: &wfmodel.ChapterGenerateOutput{ChapterContent: ptr("")},
	}
	svc := newTestService(Flows{Chapter: flow}, nil)

	r := svc.GenerateChapter(context.Background(), []byte(
		`{"userReadingLevel":"","preferredLanguage":"","topicInterest":"","previousInteractions":""}`,
	))
	require.True(t, r.Success)
	assert.Equal(t, "", *r.Data.ChapterContent)
	assert.Equal(t, int32(1), flow.calls.Load())
	require.NotNil(t, flow.lastIn.UserReadingLevel)
	assert.Empty(t, *flow.lastIn.UserReadingLevel)
	require.NotNil(t, flow.lastIn.PreviousInteractions)
}

func TestGenerateChapter_FlowErrorAndPanicBecomeFixedMessage(t *testing.T) {
	valid := map[string]any{"userReadingLevel": "a", "preferredLanguage": "b", "topicInterest": "c"}

	cases := map[string]*countingFlow[wfmodel.ChapterGenerateInput, wfmodel.ChapterGenerateOutput]{
		"error":      {err: errors.New("model exploded")},
		"panic":      {panicV: "nil map write"},
		"nil_output": {},
	}
	for name, flow := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(Flows{Chapter: flow}, nil)
			var r Result[wfmodel.ChapterGenerateOutput]
			require.NotPanics(t, func() {
				r = svc.GenerateChapter(context.Background(), valid)
			})
			assert.False(t, r.Success)
			assert.Nil(t, r.Data)
			assert.Equal(t, MsgChapterFailed, r.Error)
			assert.Equal(t, apperrors.CodeGenerationFailed, r.Code())
			assert.Equal(t, int32(1), flow.calls.Load())
		})
	}
}

func TestTranslateToUrdu(t *testing.T) {
	flow := &countingFlow[wfmodel.TranslationInput, wfmodel.TranslationOutput]{
		out: &wfmodel.TranslationOutput{TranslatedText: ptr("ہیلو")},
	}
	svc := newTestService(Flows{Translation: flow}, nil)

	r := svc.TranslateToUrdu(context.Background(), map[string]any{"text": ""})
	assert.Equal(t, MsgInvalidTranslation, r.Error)
	assert.Zero(t, flow.calls.Load())

	r = svc.TranslateToUrdu(context.Background(), []byte(`{"text":"Hello"}`))
	require.True(t, r.Success)
	assert.Equal(t, "ہیلو", *r.Data.TranslatedText)

	flow.out, flow.err = nil, errors.New("timeout")
	r = svc.TranslateToUrdu(context.Background(), map[string]any{"text": "Hello"})
	assert.Equal(t, MsgTranslationFailed, r.Error)
	assert.Equal(t, int32(2), flow.calls.Load())
}

func TestSignIn(t *testing.T) {
	svc := newTestService(Flows{}, nil)
	ctx := context.Background()

	r := svc.SignIn(ctx, map[string]any{"email": "alo450843@gmail.com", "password": "password123"})
	assert.True(t, r.Success)
	assert.Nil(t, r.Data)
	assert.Empty(t, r.Error)

	for _, creds := range []map[string]any{
		{"email": "alo450843@gmail.com", "password": "wrong"},
		{"email": "someone@example.com", "password": "password123"},
	} {
		r = svc.SignIn(ctx, creds)
		assert.False(t, r.Success)
		assert.Equal(t, MsgInvalidCredentials, r.Error)
		assert.Equal(t, apperrors.CodeInvalidCredentials, r.Code())
	}

	r = svc.SignIn(ctx, map[string]any{"email": "not-an-email", "password": "x"})
	assert.Equal(t, MsgInvalidFormData, r.Error)
	r = svc.SignIn(ctx, map[string]any{"email": "a@b.co", "password": ""})
	assert.Equal(t, MsgInvalidFormData, r.Error)
}

func TestSignUp(t *testing.T) {
	svc := newTestService(Flows{}, nil)
	ctx := context.Background()

	r := svc.SignUp(ctx, map[string]any{"email": "exists@example.com", "password": "anything8+"})
	assert.False(t, r.Success)
	assert.Equal(t, MsgAccountExists, r.Error)
	assert.Equal(t, apperrors.CodeAccountExists, r.Code())

	r = svc.SignUp(ctx, map[string]any{"email": "new@example.com", "password": "longenough"})
	assert.True(t, r.Success)
	assert.Nil(t, r.Data)

	r = svc.SignUp(ctx, map[string]any{"email": "new@example.com", "password": "short"})
	assert.Equal(t, MsgInvalidEmailOrPassword, r.Error)
}

func TestSignUp_DelayHonoursCancellation(t *testing.T) {
	svc := NewService(Flows{}, demoIdentity(), nil, Delays{SignUp: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	r := svc.SignUp(ctx, map[string]any{"email": "new@example.com", "password": "longenough"})
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, r.Success)
	assert.Equal(t, MsgAuthFailed, r.Error)
}

func TestSubmitContactForm(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(Flows{}, sink)

	valid := map[string]any{
		"name":    "Ada",
		"email":   "ada@example.com",
		"purpose": "Partnership",
		"message": "Let us build something together.",
	}
	r := svc.SubmitContactForm(context.Background(), valid)
	require.True(t, r.Success)
	require.Len(t, sink.got, 1)
	assert.Equal(t, entity.ContactPurposePartnership, sink.got[0].Purpose)

	invalid := []map[string]any{
		{"name": "A", "email": "ada@example.com", "purpose": "Support", "message": "long enough message"},
		{"name": "Ada", "email": "ada@example.com", "purpose": "Spam", "message": "long enough message"},
		{"name": "Ada", "email": "ada@example.com", "purpose": "Support", "message": "short"},
	}
	for _, raw := range invalid {
		r = svc.SubmitContactForm(context.Background(), raw)
		assert.Equal(t, MsgInvalidFormData, r.Error)
	}
	assert.Len(t, sink.got, 1)
}

func TestSubmitContactForm_Bounds(t *testing.T) {
	form := func(email, message string) map[string]any {
		return map[string]any{"name": "Ada", "email": email, "purpose": "Support", "message": message}
	}
	cases := []struct {
		name  string
		raw   map[string]any
		valid bool
	}{
		{"message_10", form("ada@example.com", strings.Repeat("m", 10)), true},
		{"message_9", form("ada@example.com", strings.Repeat("m", 9)), false},
		{"message_500", form("ada@example.com", strings.Repeat("m", 500)), true},
		{"message_501", form("ada@example.com", strings.Repeat("m", 501)), false},
		{"email_without_domain", form("ada@", strings.Repeat("m", 20)), false},
		{"email_without_at", form("ada.example.com", strings.Repeat("m", 20)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &recordingSink{}
			r := newTestService(Flows{}, sink).SubmitContactForm(context.Background(), tc.raw)
			assert.Equal(t, tc.valid, r.Success)
			if tc.valid {
				assert.Len(t, sink.got, 1)
				return
			}
			assert.Equal(t, MsgInvalidFormData, r.Error)
			assert.Equal(t, apperrors.CodeInvalidParam, r.Code())
			assert.Empty(t, sink.got)
		})
	}
}

func TestSubmitContactForm_EveryPurposeAccepted(t *testing.T) {
	for _, purpose := range entity.ContactPurposes() {
		sink := &recordingSink{}
		r := newTestService(Flows{}, sink).SubmitContactForm(context.Background(), map[string]any{
			"name": "Ada", "email": "ada@example.com", "purpose": string(purpose), "message": "Hello from the form.",
		})
		require.True(t, r.Success, purpose)
		assert.Equal(t, purpose, sink.got[0].Purpose)
	}
}

func TestBestEffortSinks_IgnoreFailures(t *testing.T) {
	failing := &recordingSink{err: errors.New("redis down")}
	ok := &recordingSink{}
	svc := newTestService(Flows{}, BestEffortSinks{LogContactSink{}, failing, nil, ok})

	r := svc.SubmitContactForm(context.Background(), map[string]any{
		"name": "Ada", "email": "ada@example.com", "purpose": "Support", "message": "Please help me out.",
	})
	assert.True(t, r.Success)
	assert.Len(t, failing.got, 1)
	assert.Len(t, ok.got, 1)
}

func TestAskQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("answer", func(t *testing.T) {
		flow := &countingFlow[wfmodel.ChatInput, wfmodel.ChatOutput]{out: &wfmodel.ChatOutput{Answer: ptr("hi")}}
		svc := newTestService(Flows{Chat: flow}, nil)

		got := svc.AskQuestion(ctx, []entity.ChatTurn{}, "hello")
		require.NotNil(t, got.Answer)
		assert.Equal(t, "hi", *got.Answer)
		assert.Equal(t, "hello", flow.lastIn.Query)
	})

	t.Run("history_forwarded_in_order", func(t *testing.T) {
		flow := &countingFlow[wfmodel.ChatInput, wfmodel.ChatOutput]{out: &wfmodel.ChatOutput{Answer: ptr("ok")}}
		svc := newTestService(Flows{Chat: flow}, nil)
		history := []entity.ChatTurn{
			entity.NewChatTurn(entity.ChatRoleUser, "1"),
			entity.NewChatTurn(entity.ChatRoleAssistant, "2"),
		}

		svc.AskQuestion(ctx, history, "3")
		assert.Equal(t, history, flow.lastIn.ChatHistory)
	})

	t.Run("flow_error_fallback", func(t *testing.T) {
		flow := &countingFlow[wfmodel.ChatInput, wfmodel.ChatOutput]{err: errors.New("boom")}
		svc := newTestService(Flows{Chat: flow}, nil)

		got := svc.AskQuestion(ctx, nil, "hello")
		require.NotNil(t, got.Answer)
		assert.Equal(t, MsgChatFallback, *got.Answer)
	})

	t.Run("invalid_input_fallback", func(t *testing.T) {
		flow := &countingFlow[wfmodel.ChatInput, wfmodel.ChatOutput]{out: &wfmodel.ChatOutput{Answer: ptr("x")}}
		svc := newTestService(Flows{Chat: flow}, nil)

		got := svc.AskQuestion(ctx, []entity.ChatTurn{{Role: "system", Content: "x"}}, "hello")
		assert.Equal(t, MsgChatFallback, *got.Answer)
		assert.Zero(t, flow.calls.Load())
	})

	t.Run("empty_query_forwarded", func(t *testing.T) {
		flow := &countingFlow[wfmodel.ChatInput, wfmodel.ChatOutput]{out: &wfmodel.ChatOutput{Answer: ptr("ask me anything")}}
		svc := newTestService(Flows{Chat: flow}, nil)

		got := svc.AskQuestion(ctx, nil, "")
		assert.Equal(t, "ask me anything", *got.Answer)
		assert.Equal(t, int32(1), flow.calls.Load())
		assert.Empty(t, flow.lastIn.Query)
	})

	t.Run("blank_answer_returned_as_is", func(t *testing.T) {
		for _, answer := range []string{"", "  "} {
			flow := &countingFlow[wfmodel.ChatInput, wfmodel.ChatOutput]{out: &wfmodel.ChatOutput{Answer: ptr(answer)}}
			svc := newTestService(Flows{Chat: flow}, nil)

			got := svc.AskQuestion(ctx, nil, "hello")
			require.NotNil(t, got.Answer)
			assert.Equal(t, answer, *got.Answer)
		}
	})
}

func TestExecute_RejectionSurfacedVerbatim(t *testing.T) {
	type in struct {
		ID string `json:"id" validate:"required"`
	}
	flow := FlowFunc[in, Empty](func(context.Context, in) (*Empty, error) {
		return nil, fmt.Errorf("reserve: %w", apperrors.New(apperrors.CodeAccountExists, "Already taken."))
	})

	r := Execute(context.Background(), map[string]any{"id": "1"}, Spec[in, Empty]{
		Name:           "test_rejection",
		Schema:         validation.NewSchema[in]("test"),
		Flow:           flow,
		InvalidMessage: "bad",
		FailureMessage: "failed",
	})
	assert.False(t, r.Success)
	assert.Equal(t, "Already taken.", r.Error)
	assert.Equal(t, apperrors.CodeAccountExists, r.Code())
}

func TestResult_Code(t *testing.T) {
	assert.Equal(t, apperrors.CodeSuccess, Result[Empty]{Success: true}.Code())
	assert.Equal(t, apperrors.CodeUnknown, Result[Empty]{}.Code())
	assert.Equal(t, apperrors.CodeInvalidParam, Fail[Empty](apperrors.CodeInvalidParam, "x").Code())
}
