package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtweets/pkg/x/llm"
)

var allVars = []string{
	"LLM_PROVIDER", "LLM_MODEL", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_BASE_URL",
	"OPENAI_API_KEY", "OPENAI_BASE_URL",
	"TWITTER_APP_KEY", "TWITTER_API_KEY", "TWITTER_APP_SECRET", "TWITTER_API_SECRET",
	"TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_SECRET", "TWITTER_OAUTH2_TOKEN",
	"TWITTER_API_BASE", "TWITTER_HANDLE",
	"TWEET_AGENT_MAX_ATTEMPTS", "LLM_TIMEOUT_SECONDS", "TWITTER_TIMEOUT_SECONDS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

func setOAuth1(t *testing.T) {
	t.Helper()
	t.Setenv("TWITTER_APP_KEY", "app")
	t.Setenv("TWITTER_APP_SECRET", "appsecret")
	t.Setenv("TWITTER_ACCESS_TOKEN", "tok")
	t.Setenv("TWITTER_ACCESS_SECRET", "toksecret")
}

func TestLoad_GeminiDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("TWITTER_HANDLE", "@techbot")
	setOAuth1(t)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gem", cfg.LLM.APIKey)
	assert.Equal(t, "https://api.x.com", cfg.TwitterAPIBase)
	assert.Equal(t, "techbot", cfg.TwitterHandle)
	assert.Equal(t, "oauth1", cfg.Twitter.Scheme())
}

func TestLoad_MissingGenerationKey(t *testing.T) {
	clearEnv(t)

	_, err := Load(Overrides{DryRun: true})
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"GEMINI_API_KEY"}, ce.Missing)
}

func TestLoad_PublishingNeedsTwitterCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("TWITTER_APP_KEY", "app")

	_, err := Load(Overrides{})
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"TWITTER_APP_SECRET", "TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_SECRET"}, ce.Missing)
	assert.Contains(t, err.Error(), "TWITTER_ACCESS_SECRET")
}

func TestLoad_DryRunSkipsTwitterCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gem")

	cfg, err := Load(Overrides{DryRun: true})
	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
}

func TestLoad_OpenAIOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("OPENAI_API_KEY", "sk")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1/")
	t.Setenv("TWITTER_OAUTH2_TOKEN", "bearer")

	cfg, err := Load(Overrides{Provider: "OpenAI", Model: "llama3"})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "oauth2", cfg.Twitter.Scheme())
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gem")

	t.Setenv("LLM_PROVIDER", "bard")
	_, err := Load(Overrides{DryRun: true})
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))

	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("TWITTER_API_BASE", "ftp://x")
	_, err = Load(Overrides{DryRun: true})
	require.True(t, errors.As(err, &ce))
}

func TestLoad_Limits(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gem")

	cfg, err := Load(Overrides{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, llm.DefaultHTTPClientTimeout, cfg.GenerationTimeout)
	assert.Equal(t, DefaultPublishTimeout, cfg.PublishTimeout)

	t.Setenv("TWEET_AGENT_MAX_ATTEMPTS", "5")
	t.Setenv("LLM_TIMEOUT_SECONDS", "30")
	t.Setenv("TWITTER_TIMEOUT_SECONDS", "9")
	cfg, err = Load(Overrides{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 9*time.Second, cfg.PublishTimeout)

	cfg, err = Load(Overrides{DryRun: true, MaxAttempts: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxAttempts)

	t.Setenv("TWEET_AGENT_MAX_ATTEMPTS", "zero")
	_, err = Load(Overrides{DryRun: true})
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
}
