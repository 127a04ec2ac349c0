package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultOpenAIBaseURL        = "https://api.openai.com/v1"
	DefaultOpenAIModel          = "gpt-4o-mini"
	DefaultOpenAIRequestTimeout = 75 * time.Second
)

type OpenAIChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string

	RequestTimeout time.Duration
}

func (c OpenAIChatConfig) withDefaults() OpenAIChatConfig {
	out := c
	if strings.TrimSpace(out.BaseURL) == "" {
		out.BaseURL = DefaultOpenAIBaseURL
	}
	if strings.TrimSpace(out.Model) == "" {
		out.Model = DefaultOpenAIModel
	}
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = DefaultOpenAIRequestTimeout
	}
	return out
}

// OpenAIGenerator talks to any OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	client openaigo.Client
	model  string
}

func NewOpenAIGenerator(httpClient *http.Client, cfg OpenAIChatConfig) (*OpenAIGenerator, error) {
	cfg = cfg.withDefaults()
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}

	// Retries are off: a failed generation surfaces to the caller as-is.
	client := openaigo.NewClient(
		option.WithBaseURL(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")),
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.RequestTimeout),
	)
	return &OpenAIGenerator{client: client, model: strings.TrimSpace(cfg.Model)}, nil
}

func (g *OpenAIGenerator) Name() string { return ProviderOpenAI + "/" + g.model }

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", fmt.Errorf("empty prompt")
	}

	params := openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(g.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.UserMessage(prompt),
		},
	}
	c := req.Config
	if c.MaxOutputTokens > 0 {
		params.MaxTokens = openaigo.Int(int64(c.MaxOutputTokens))
	}
	if c.Temperature != nil {
		params.Temperature = openaigo.Float(*c.Temperature)
	}
	if c.TopP != nil {
		params.TopP = openaigo.Float(*c.TopP)
	}
	if c.CandidateCount > 1 {
		params.N = openaigo.Int(int64(c.CandidateCount))
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned empty choices")
	}
	switch reason := resp.Choices[0].FinishReason; reason {
	case "", "stop":
	case "length":
		return "", fmt.Errorf("openai: %w", ErrTruncated)
	default:
		return "", fmt.Errorf("openai stopped early: finish_reason=%s", reason)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("llm returned empty text")
	}
	return text, nil
}
