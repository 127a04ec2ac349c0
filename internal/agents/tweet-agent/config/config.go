package config

import (
	"fmt"
	"strings"
	"time"

	"techtweets/pkg/api/auth"
	"techtweets/pkg/api/twitter"
	"techtweets/pkg/runtime"
	"techtweets/pkg/x/llm"
)

const (
	DefaultMaxAttempts    = 3
	DefaultPublishTimeout = 15 * time.Second
)

// Overrides come from CLI flags and win over the environment.
// Zero values leave the environment setting in place.
type Overrides struct {
	Provider    string
	Model       string
	DryRun      bool
	MaxAttempts int
}

type Config struct {
	LLM            llm.ProviderConfig
	Twitter        auth.TwitterCredentials
	TwitterAPIBase string
	TwitterHandle  string
	DryRun         bool

	MaxAttempts       int
	GenerationTimeout time.Duration
	PublishTimeout    time.Duration
}

// ConfigurationError is fatal: the run must not start.
type ConfigurationError struct {
	Missing []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	switch {
	case len(e.Missing) > 0 && e.Reason != "":
		return fmt.Sprintf("configuration: %s (missing %s)", e.Reason, strings.Join(e.Missing, ", "))
	case len(e.Missing) > 0:
		return "configuration: missing " + strings.Join(e.Missing, ", ")
	default:
		return "configuration: " + e.Reason
	}
}

// Load reads settings from the environment. Twitter credentials are only
// required when publishing.
func Load(o Overrides) (Config, error) {
	provider := strings.ToLower(strings.TrimSpace(o.Provider))
	if provider == "" {
		provider = strings.ToLower(runtime.GetEnv("LLM_PROVIDER", llm.ProviderGemini))
	}

	cfg := Config{DryRun: o.DryRun}
	cfg.LLM = llm.ProviderConfig{
		Provider: provider,
		Model:    strings.TrimSpace(o.Model),
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = runtime.GetEnv("LLM_MODEL", "")
	}

	switch provider {
	case llm.ProviderGemini:
		cfg.LLM.APIKey = runtime.FirstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
		if cfg.LLM.APIKey == "" {
			return Config{}, &ConfigurationError{Missing: []string{"GEMINI_API_KEY"}}
		}
		if raw := runtime.GetEnv("GEMINI_BASE_URL", ""); raw != "" {
			base, err := runtime.NormalizeBaseURL(raw, "")
			if err != nil {
				return Config{}, &ConfigurationError{Reason: "invalid GEMINI_BASE_URL: " + err.Error()}
			}
			cfg.LLM.BaseURL = base
		}
	case llm.ProviderOpenAI:
		cfg.LLM.APIKey = runtime.GetEnv("OPENAI_API_KEY", "")
		if cfg.LLM.APIKey == "" {
			return Config{}, &ConfigurationError{Missing: []string{"OPENAI_API_KEY"}}
		}
		base, err := runtime.NormalizeBaseURL(runtime.GetEnv("OPENAI_BASE_URL", ""), llm.DefaultOpenAIBaseURL)
		if err != nil {
			return Config{}, &ConfigurationError{Reason: "invalid OPENAI_BASE_URL: " + err.Error()}
		}
		cfg.LLM.BaseURL = base
	default:
		return Config{}, &ConfigurationError{Reason: fmt.Sprintf("unknown LLM_PROVIDER %q (want gemini or openai)", provider)}
	}

	if err := loadLimits(&cfg, o); err != nil {
		return Config{}, err
	}

	apiBase, err := runtime.NormalizeBaseURL(runtime.GetEnv("TWITTER_API_BASE", ""), twitter.DefaultAPIBase)
	if err != nil {
		return Config{}, &ConfigurationError{Reason: "invalid TWITTER_API_BASE: " + err.Error()}
	}
	cfg.TwitterAPIBase = apiBase
	cfg.TwitterHandle = strings.TrimPrefix(runtime.GetEnv("TWITTER_HANDLE", ""), "@")
	cfg.Twitter = auth.TwitterCredentials{
		AppKey:       runtime.FirstEnv("TWITTER_APP_KEY", "TWITTER_API_KEY"),
		AppSecret:    runtime.FirstEnv("TWITTER_APP_SECRET", "TWITTER_API_SECRET"),
		AccessToken:  runtime.GetEnv("TWITTER_ACCESS_TOKEN", ""),
		AccessSecret: runtime.GetEnv("TWITTER_ACCESS_SECRET", ""),
		OAuth2Token:  runtime.GetEnv("TWITTER_OAUTH2_TOKEN", ""),
	}

	if !o.DryRun && cfg.Twitter.Scheme() == "" {
		return Config{}, &ConfigurationError{
			Reason:  "twitter credentials required to publish (set TWITTER_OAUTH2_TOKEN or the OAuth 1.0a set)",
			Missing: missingOAuth1(cfg.Twitter),
		}
	}
	return cfg, nil
}

func loadLimits(cfg *Config, o Overrides) error {
	var err error
	cfg.MaxAttempts = o.MaxAttempts
	if cfg.MaxAttempts <= 0 {
		if cfg.MaxAttempts, err = runtime.GetEnvInt("TWEET_AGENT_MAX_ATTEMPTS", DefaultMaxAttempts); err != nil {
			return &ConfigurationError{Reason: err.Error()}
		}
	}
	if cfg.GenerationTimeout, err = runtime.GetEnvSeconds("LLM_TIMEOUT_SECONDS", llm.DefaultHTTPClientTimeout); err != nil {
		return &ConfigurationError{Reason: err.Error()}
	}
	if cfg.PublishTimeout, err = runtime.GetEnvSeconds("TWITTER_TIMEOUT_SECONDS", DefaultPublishTimeout); err != nil {
		return &ConfigurationError{Reason: err.Error()}
	}
	return nil
}

func missingOAuth1(c auth.TwitterCredentials) []string {
	var missing []string
	if strings.TrimSpace(c.AppKey) == "" {
		missing = append(missing, "TWITTER_APP_KEY")
	}
	if strings.TrimSpace(c.AppSecret) == "" {
		missing = append(missing, "TWITTER_APP_SECRET")
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		missing = append(missing, "TWITTER_ACCESS_TOKEN")
	}
	if strings.TrimSpace(c.AccessSecret) == "" {
		missing = append(missing, "TWITTER_ACCESS_SECRET")
	}
	return missing
}
