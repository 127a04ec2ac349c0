package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint; used by tests.
	BaseURL string
}

type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, httpClient *http.Client, cfg GeminiConfig) (*GeminiGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(base, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Name() string { return ProviderGemini + "/" + g.model }

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", fmt.Errorf("empty prompt")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), geminiConfig(g.model, req.Config))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) > 0 {
		switch reason := resp.Candidates[0].FinishReason; reason {
		case "", genai.FinishReasonStop, genai.FinishReasonUnspecified:
		case genai.FinishReasonMaxTokens:
			return "", fmt.Errorf("gemini: %w", ErrTruncated)
		default:
			return "", fmt.Errorf("gemini stopped early: finish_reason=%s", reason)
		}
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

func geminiConfig(model string, c GenerationConfig) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{}
	if c.MaxOutputTokens > 0 {
		out.MaxOutputTokens = int32(c.MaxOutputTokens)
	}
	if c.CandidateCount > 0 {
		out.CandidateCount = int32(c.CandidateCount)
	}
	if c.Temperature != nil {
		out.Temperature = genai.Ptr(float32(*c.Temperature))
	}
	if c.TopP != nil {
		out.TopP = genai.Ptr(float32(*c.TopP))
	}
	if c.TopK != nil {
		out.TopK = genai.Ptr(float32(*c.TopK))
	}
	if c.ThinkingBudget != nil && thinkingAdjustable(model) {
		out.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(int32(*c.ThinkingBudget))}
	}
	return out
}

// thinkingAdjustable is true for the flash models, whose thinking can be
// capped or switched off. Pro models reject a zero budget.
func thinkingAdjustable(model string) bool {
	return strings.HasPrefix(model, "gemini-2.5-flash")
}
