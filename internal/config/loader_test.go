package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadFrom_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "aetherium-books-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, "alo450843@gmail.com", cfg.Auth.Mock.Email)
	assert.Equal(t, "password123", cfg.Auth.Mock.Password)
	assert.Equal(t, "exists@example.com", cfg.Auth.Mock.ExistingEmail)
	assert.Equal(t, time.Second, cfg.Actions.Delays.Contact)
	assert.Equal(t, 1500*time.Millisecond, cfg.Actions.Delays.SignUp)
	assert.Equal(t, 1500*time.Millisecond, cfg.Actions.Delays.SignIn)
	assert.Equal(t, "stream:contact:inbox", cfg.Features.ContactInbox.Stream)
	assert.False(t, cfg.Cache.Redis.Enabled)
}

func TestLoadFrom_ExpandsEnvAndMergesEnvFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: ${AETHERIUM_TEST_KEY:fallback}
      model: ${AETHERIUM_TEST_MODEL:gpt-4o-mini}
actions:
  delays:
    contact: 1s
`)
	writeConfig(t, dir, "config.staging.yaml", `
actions:
  delays:
    contact: 10ms
`)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("AETHERIUM_TEST_KEY", "sk-test")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	provider, ok := cfg.LLM.Providers["openai"]
	require.True(t, ok)
	assert.Equal(t, "sk-test", provider.APIKey)
	assert.Equal(t, "gpt-4o-mini", provider.Model)
	assert.Equal(t, 10*time.Millisecond, cfg.Actions.Delays.Contact)
}

func TestLoadFrom_RepositoryConfig(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(filepath.Join("..", "..", "configs"))
	require.NoError(t, err)

	assert.Contains(t, cfg.LLM.Providers, "openai")
	assert.Equal(t, "/metrics", cfg.Observability.Metrics.Path)
	assert.Equal(t, time.Minute, cfg.Security.RateLimit.Window)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("AETHERIUM_SET", "value")

	assert.Equal(t, "a=value", expandEnv("a=${AETHERIUM_SET}"))
	assert.Equal(t, "b=def", expandEnv("b=${AETHERIUM_UNSET_VAR:def}"))
	assert.Equal(t, "c=", expandEnv("c=${AETHERIUM_UNSET_VAR:}"))
	assert.Equal(t, "d=${AETHERIUM_UNSET_VAR}", expandEnv("d=${AETHERIUM_UNSET_VAR}"))
}
