package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGenerator_SendsSamplingConfig(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected auth header, got %q", r.Header.Get("Authorization"))
		}
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  Tweet 1: hi  "}}]}`)
	}))
	defer server.Close()

	gen, err := NewOpenAIGenerator(server.Client(), OpenAIChatConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gpt-test",
	})
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-test", gen.Name())

	text, err := gen.Generate(context.Background(), GenerationRequest{
		Prompt: "write a tweet",
		Config: DefaultGenerationConfig(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tweet 1: hi", text)

	assert.Equal(t, "gpt-test", got["model"])
	assert.EqualValues(t, DefaultMaxOutputTokens, got["max_tokens"])
	assert.InDelta(t, DefaultTemperature, got["temperature"], 1e-9)
	assert.InDelta(t, DefaultTopP, got["top_p"], 1e-9)
}

func TestOpenAIGenerator_ErrorIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"quota","type":"rate_limit"}}`)
	}))
	defer server.Close()

	gen, err := NewOpenAIGenerator(server.Client(), OpenAIChatConfig{BaseURL: server.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), GenerationRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestOpenAIGenerator_LengthStopIsTruncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"finish_reason":"length","message":{"role":"assistant","content":"Tip one.\n\nTip two is cut"}}]}`)
	}))
	defer server.Close()

	gen, err := NewOpenAIGenerator(server.Client(), OpenAIChatConfig{BaseURL: server.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), GenerationRequest{Prompt: "p"})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestOpenAIGenerator_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIGenerator(nil, OpenAIChatConfig{})
	assert.Error(t, err)
}

func TestGeminiGenerator_Generate(t *testing.T) {
	var got map[string]any
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello world!\n\nGoodbye."}]},"finishReason":"STOP"}]}`)
	}))
	defer server.Close()

	gen, err := NewGeminiGenerator(context.Background(), server.Client(), GeminiConfig{
		APIKey:  "gem-key",
		Model:   "gemini-test",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini/gemini-test", gen.Name())

	text, err := gen.Generate(context.Background(), GenerationRequest{
		Prompt: "write a thread",
		Config: DefaultGenerationConfig(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world!\n\nGoodbye.", text)
	assert.Contains(t, path, "gemini-test:generateContent")

	cfg, ok := got["generationConfig"].(map[string]any)
	require.True(t, ok, "expected generationConfig in request, got %v", got)
	assert.EqualValues(t, DefaultMaxOutputTokens, cfg["maxOutputTokens"])
	assert.EqualValues(t, DefaultTopK, cfg["topK"])
	assert.NotContains(t, cfg, "thinkingConfig")
}

func TestGeminiGenerator_MaxTokensIsTruncated(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Tip one.\n\nTip two.\n\nTip three is cut off mid"}]},"finishReason":"MAX_TOKENS"}]}`)
	}))
	defer server.Close()

	gen, err := NewGeminiGenerator(context.Background(), server.Client(), GeminiConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), GenerationRequest{Prompt: "p", Config: DefaultGenerationConfig()})
	require.ErrorIs(t, err, ErrTruncated)

	cfg, ok := got["generationConfig"].(map[string]any)
	require.True(t, ok, "expected generationConfig in request, got %v", got)
	thinking, ok := cfg["thinkingConfig"].(map[string]any)
	require.True(t, ok, "expected thinkingConfig for %s, got %v", DefaultGeminiModel, cfg)
	assert.EqualValues(t, 0, thinking["thinkingBudget"])
}

func TestGeminiGenerator_SafetyStopIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Partial"}]},"finishReason":"SAFETY"}]}`)
	}))
	defer server.Close()

	gen, err := NewGeminiGenerator(context.Background(), server.Client(), GeminiConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), GenerationRequest{Prompt: "p"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTruncated)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiGenerator_EmptyTextIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	gen, err := NewGeminiGenerator(context.Background(), server.Client(), GeminiConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), GenerationRequest{Prompt: "p"})
	assert.Error(t, err)
}

func TestNewGenerator_UnknownProvider(t *testing.T) {
	_, err := NewGenerator(context.Background(), nil, ProviderConfig{Provider: "bard", APIKey: "k"})
	assert.Error(t, err)
}
