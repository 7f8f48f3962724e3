package action

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aetherium-books-api/internal/config"
	wfmodel "aetherium-books-api/internal/workflow/model"
	apperrors "aetherium-books-api/pkg/errors"
)

func TestNewMockIdentity_FromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.Mock = config.MockAuthConfig{Email: "demo@example.com", Password: "pw", ExistingEmail: "taken@example.com"}
	id := NewMockIdentity(cfg)
	ctx := context.Background()

	ok, err := id.Authenticate(ctx, "demo@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = id.Authenticate(ctx, "demo@example.com", "PW")
	assert.False(t, ok)

	exists, _ := id.Exists(ctx, "taken@example.com")
	assert.True(t, exists)
	exists, _ = id.Exists(ctx, "demo@example.com")
	assert.False(t, exists)
}

func TestMockIdentity_EmptyNeverAuthenticates(t *testing.T) {
	ok, err := (&MockIdentity{}).Authenticate(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResult_JSONEnvelope(t *testing.T) {
	b, err := json.Marshal(withoutData(Ok(&Empty{})))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(b))

	b, err = json.Marshal(Fail[Empty](apperrors.CodeInvalidCredentials, MsgInvalidCredentials))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Invalid credentials."}`, string(b))

	b, err = json.Marshal(Ok(&wfmodel.TranslationOutput{TranslatedText: ptr("سلام")}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"translatedText":"سلام"}}`, string(b))

	b, err = json.Marshal(Ok(&wfmodel.ChapterGenerateOutput{ChapterContent: ptr("")}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"chapterContent":""}}`, string(b))

	b, err = json.Marshal(AskResult{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":null}`, string(b))
}
