package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"github.com/ZaguanLabs/gameloc"
)

// OllamaProvider implements Provider and Reviewer over a local Ollama server.
type OllamaProvider struct {
	http        *resty.Client
	baseURL     string
	model       string
	temperature float32
	maxTokens   int

	modelLoaded atomic.Bool
	modelCheck  singleflight.Group
}

// OllamaConfig holds configuration for the Ollama provider.
type OllamaConfig struct {
	BaseURL     string        // default: http://127.0.0.1:11434
	Model       string        // default: qwen3:8b
	Temperature *float32      // nil: 0.3
	MaxTokens   int           // num_predict, default: 2000
	Timeout     time.Duration // default: 120s
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg OllamaConfig) *OllamaProvider {
	base := cfg.BaseURL
	if base == "" {
		base = KindOllama.DefaultBaseURL()
	}

	model := cfg.Model
	if model == "" {
		model = KindOllama.DefaultModel()
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = OllamaTimeout
	}

	return &OllamaProvider{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", gameloc.UserAgent()),
		baseURL:     strings.TrimRight(base, "/"),
		model:       model,
		temperature: temperatureOrDefault(cfg.Temperature),
		maxTokens:   maxTokens,
	}
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return string(KindOllama)
}

// Model returns the configured model.
func (p *OllamaProvider) Model() string {
	return p.model
}

type generateRequest struct {
	Model   string          `json:"model"`
	System  string          `json:"system,omitempty"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// Translate translates one text.
func (p *OllamaProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if err := p.ensureModel(ctx); err != nil {
		return "", err
	}

	system, user := buildTranslationPrompt(req)
	content, err := p.generate(ctx, system, user, "")
	if err != nil {
		return "", err
	}

	translation := cleanTranslation(content)
	if translation == "" {
		return "", &gameloc.ProviderError{
			Provider:  p.Name(),
			Message:   "empty translation in response",
			Retryable: true,
		}
	}
	return translation, nil
}

// Review assesses a translation.
func (p *OllamaProvider) Review(ctx context.Context, req ReviewRequest) (*gameloc.ReviewResult, error) {
	if err := p.ensureModel(ctx); err != nil {
		return nil, err
	}

	system, user := buildReviewPrompt(req)
	content, err := p.generate(ctx, system, user, "json")
	if err != nil {
		return nil, err
	}

	return parseReview(content, req.Translated), nil
}

// Models lists the models installed on the server.
func (p *OllamaProvider) Models(ctx context.Context) ([]string, error) {
	var resp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	r, err := p.http.R().
		SetContext(ctx).
		SetResult(&resp).
		SetError(&ollamaError{}).
		Get(p.baseURL + "/api/tags")
	if err != nil {
		return nil, p.transportError(err)
	}
	if r.IsError() {
		return nil, p.statusError(r, "listing models")
	}

	models := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

// ensureModel verifies once that the configured model is installed. A
// missing model is a configuration error; an unreachable server is retried
// on the next call. Concurrent first calls share one /api/tags request,
// and each waits only as long as its own ctx allows.
func (p *OllamaProvider) ensureModel(ctx context.Context) error {
	if p.modelLoaded.Load() {
		return nil
	}

	ch := p.modelCheck.DoChan(p.model, func() (interface{}, error) {
		return nil, p.checkModel(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (p *OllamaProvider) checkModel(ctx context.Context) error {
	if p.modelLoaded.Load() {
		return nil
	}

	models, err := p.Models(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		if m == p.model || m == p.model+":latest" {
			p.modelLoaded.Store(true)
			return nil
		}
	}
	return &gameloc.ConfigurationError{
		Message: fmt.Sprintf("ollama model %q not found, available: %s", p.model, strings.Join(models, ", ")),
	}
}

func (p *OllamaProvider) generate(ctx context.Context, system, prompt, format string) (string, error) {
	var resp generateResponse
	r, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(generateRequest{
			Model:  p.model,
			System: system,
			Prompt: prompt,
			Stream: false,
			Format: format,
			Options: generateOptions{
				Temperature: p.temperature,
				NumPredict:  p.maxTokens,
			},
		}).
		SetResult(&resp).
		SetError(&ollamaError{}).
		Post(p.baseURL + "/api/generate")
	if err != nil {
		return "", p.transportError(err)
	}
	if r.IsError() {
		return "", p.statusError(r, "generate")
	}
	if resp.Response == nil {
		return "", &gameloc.ProviderError{
			Provider:  p.Name(),
			Message:   "malformed response: missing response field",
			Retryable: true,
		}
	}
	return *resp.Response, nil
}

func (p *OllamaProvider) transportError(err error) error {
	return &gameloc.ProviderError{
		Provider:  p.Name(),
		Message:   "cannot reach ollama at " + p.baseURL,
		Cause:     err,
		Retryable: !errors.Is(err, context.Canceled),
	}
}

func (p *OllamaProvider) statusError(r *resty.Response, op string) error {
	msg := strings.TrimSpace(r.String())
	if body, ok := r.Error().(*ollamaError); ok && body.Error != "" {
		msg = body.Error
	}

	status := r.StatusCode()
	switch {
	case status == http.StatusNotFound:
		return &gameloc.ConfigurationError{Message: fmt.Sprintf("ollama %s: %s", op, msg)}
	case status == http.StatusTooManyRequests || status >= 500:
		return &gameloc.ProviderError{Provider: p.Name(), Message: op + ": " + msg, StatusCode: status, Retryable: true}
	}
	return &gameloc.ProviderError{Provider: p.Name(), Message: op + ": " + msg, StatusCode: status}
}

// Verify OllamaProvider implements the provider interfaces
var (
	_ Provider         = (*OllamaProvider)(nil)
	_ gameloc.Reviewer = (*OllamaProvider)(nil)
	_ ModelLister      = (*OllamaProvider)(nil)
)
