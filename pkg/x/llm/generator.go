package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultMaxOutputTokens   = 400
	DefaultTemperature       = 0.9
	DefaultTopP              = 0.95
	DefaultTopK              = 40
	DefaultHTTPClientTimeout = 75 * time.Second
)

// GenerationConfig carries the sampling knobs sent with a prompt.
// Nil pointers leave the provider default in place.
type GenerationConfig struct {
	MaxOutputTokens int
	Temperature     *float64
	TopP            *float64
	TopK            *int
	CandidateCount  int
	// ThinkingBudget caps reasoning tokens on models that allow it; 0 turns
	// thinking off so the whole output budget goes to visible text.
	ThinkingBudget  *int
}

// ErrTruncated means the provider stopped at the output token limit, so the
// text ends mid-thought.
var ErrTruncated = errors.New("generation stopped at the output token limit")

// DefaultGenerationConfig mirrors what the bot has always asked for.
func DefaultGenerationConfig() GenerationConfig {
	temp, topP, topK, thinking := DefaultTemperature, DefaultTopP, DefaultTopK, 0
	return GenerationConfig{
		MaxOutputTokens: DefaultMaxOutputTokens,
		Temperature:     &temp,
		TopP:            &topP,
		TopK:            &topK,
		CandidateCount:  1,
		ThinkingBudget:  &thinking,
	}
}

type GenerationRequest struct {
	Prompt string
	Config GenerationConfig
}

// Generator turns a prompt into raw text. Implementations make exactly one
// upstream call per Generate.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

type ProviderConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NewGenerator builds the generator for cfg.Provider.
func NewGenerator(ctx context.Context, httpClient *http.Client, cfg ProviderConfig) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		return NewGeminiGenerator(ctx, httpClient, GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case ProviderOpenAI:
		return NewOpenAIGenerator(httpClient, OpenAIChatConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultHTTPClientTimeout}
}
