// Package provider implements the AI translation backends: OpenAI-compatible
// chat APIs (OpenAI, DeepSeek, Qwen) and local Ollama models.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZaguanLabs/gameloc"
)

// Provider is an alias to the main package interface for convenience.
type Provider = gameloc.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = gameloc.TranslateRequest

// ReviewRequest is an alias to the main package type.
type ReviewRequest = gameloc.ReviewRequest

// ModelLister is implemented by providers that can enumerate their models.
type ModelLister interface {
	Models(ctx context.Context) ([]string, error)
}

// Kind selects a provider implementation.
type Kind string

const (
	KindOpenAI   Kind = "openai"
	KindDeepSeek Kind = "deepseek"
	KindQwen     Kind = "qwen"
	KindOllama   Kind = "ollama"
)

// Kinds lists every supported provider kind.
var Kinds = []Kind{KindOpenAI, KindDeepSeek, KindQwen, KindOllama}

// Defaults for generation parameters.
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 2000
	DefaultTimeout     = 60 * time.Second
	OllamaTimeout      = 120 * time.Second
)

type preset struct {
	displayName string
	baseURL     string
	model       string
	needsKey    bool
}

var presets = map[Kind]preset{
	KindOpenAI:   {"OpenAI", "https://api.openai.com/v1", "gpt-3.5-turbo", true},
	KindDeepSeek: {"DeepSeek", "https://api.deepseek.com/v1", "deepseek-chat", true},
	KindQwen:     {"Qwen (DashScope)", "https://dashscope.aliyuncs.com/compatible-mode/v1", "qwen-turbo", true},
	KindOllama:   {"Ollama (local)", "http://127.0.0.1:11434", "qwen3:8b", false},
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presets[k]; !ok {
		return "", &gameloc.ConfigurationError{Message: fmt.Sprintf("unknown provider %q", s)}
	}
	return k, nil
}

// DisplayName returns a human-readable name for the kind.
func (k Kind) DisplayName() string {
	return presets[k].displayName
}

// DefaultBaseURL returns the API base URL used when none is configured.
func (k Kind) DefaultBaseURL() string {
	return presets[k].baseURL
}

// DefaultModel returns the model used when none is configured.
func (k Kind) DefaultModel() string {
	return presets[k].model
}

// NeedsAPIKey reports whether the kind requires credentials.
func (k Kind) NeedsAPIKey() bool {
	return presets[k].needsKey
}

// Float32 returns a pointer to v, for optional settings such as
// Config.Temperature.
func Float32(v float32) *float32 {
	return &v
}

func temperatureOrDefault(t *float32) float32 {
	if t == nil {
		return DefaultTemperature
	}
	return *t
}

// Config selects and configures a provider.
type Config struct {
	Kind        Kind
	APIKey      string
	BaseURL     string        // default depends on Kind
	Model       string        // default depends on Kind
	Temperature *float32      // nil means DefaultTemperature
	MaxTokens   int           // default 2000
	Timeout     time.Duration // per request
}

// New creates the provider selected by cfg.Kind.
func New(cfg Config) (Provider, error) {
	kind, err := ParseKind(string(cfg.Kind))
	if err != nil {
		return nil, err
	}
	cfg.Kind = kind

	if cfg.BaseURL == "" {
		cfg.BaseURL = kind.DefaultBaseURL()
	}
	if cfg.Model == "" {
		cfg.Model = kind.DefaultModel()
	}
	if kind.NeedsAPIKey() && strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &gameloc.ConfigurationError{Message: fmt.Sprintf("%s API key is not set", kind.DisplayName())}
	}

	switch kind {
	case KindOllama:
		return NewOllamaProvider(OllamaConfig{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}), nil
	default:
		return NewOpenAIProvider(OpenAIConfig{
			Name:        string(kind),
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}), nil
	}
}
