package provider

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ZaguanLabs/gameloc"
)

// OpenAIProvider implements Provider and Reviewer over any OpenAI-compatible
// chat completions API (OpenAI, DeepSeek, Qwen).
type OpenAIProvider struct {
	client      *openai.Client
	name        string
	model       string
	temperature float32
	maxTokens   int
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	Name        string        // Provider name used in results and cache keys (default: "openai")
	APIKey      string        // API key
	Model       string        // Model to use (default: "gpt-3.5-turbo")
	Temperature *float32      // Temperature for generation (nil: 0.3)
	MaxTokens   int           // Completion token limit (default: 2000)
	BaseURL     string        // Custom base URL (optional)
	Timeout     time.Duration // HTTP timeout (default: 60s)
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	config.HTTPClient = &http.Client{Timeout: timeout}

	name := cfg.Name
	if name == "" {
		name = string(KindOpenAI)
	}

	model := cfg.Model
	if model == "" {
		model = KindOpenAI.DefaultModel()
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		name:        name,
		model:       model,
		temperature: temperatureOrDefault(cfg.Temperature),
		maxTokens:   maxTokens,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Model returns the configured model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Translate translates one text.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	system, user := buildTranslationPrompt(req)

	content, err := p.complete(ctx, system, user, false)
	if err != nil {
		return "", err
	}

	translation := cleanTranslation(content)
	if translation == "" {
		return "", &gameloc.ProviderError{
			Provider:  p.name,
			Message:   "empty translation in response",
			Retryable: true,
		}
	}
	return translation, nil
}

// Review assesses a translation.
func (p *OpenAIProvider) Review(ctx context.Context, req ReviewRequest) (*gameloc.ReviewResult, error) {
	system, user := buildReviewPrompt(req)

	content, err := p.complete(ctx, system, user, true)
	if err != nil {
		return nil, err
	}

	return parseReview(content, req.Translated), nil
}

// Models lists the models available to the configured key.
func (p *OpenAIProvider) Models(ctx context.Context) ([]string, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, classifyError(p.name, err)
	}
	models := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, m.ID)
	}
	return models, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	// go-openai omits a zero temperature, which the API reads as 1.
	temperature := p.temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   p.maxTokens,
	}
	if jsonMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", classifyError(p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", &gameloc.ProviderError{
			Provider:  p.name,
			Message:   "no choices in response",
			Retryable: true,
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyError maps a client error onto the engine's error taxonomy.
func classifyError(provider string, err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &gameloc.ConfigurationError{Message: provider + ": authentication failed", Cause: err}
	case status == http.StatusNotFound:
		return &gameloc.ConfigurationError{Message: provider + ": model or endpoint not found", Cause: err}
	case status == http.StatusTooManyRequests || status >= 500:
		return &gameloc.ProviderError{Provider: provider, Message: "API call failed", Cause: err, StatusCode: status, Retryable: true}
	case status >= 400:
		return &gameloc.ProviderError{Provider: provider, Message: "API call rejected", Cause: err, StatusCode: status}
	}

	return &gameloc.ProviderError{
		Provider:  provider,
		Message:   "API call failed",
		Cause:     err,
		Retryable: isRetryableError(err),
	}
}

func isRetryableError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"eof",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAIProvider implements the provider interfaces
var (
	_ Provider         = (*OpenAIProvider)(nil)
	_ gameloc.Reviewer = (*OpenAIProvider)(nil)
	_ ModelLister      = (*OpenAIProvider)(nil)
)
