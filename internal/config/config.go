// Package config loads gameloc configuration from YAML and the environment.
package config

import (
	"time"

	"github.com/ZaguanLabs/gameloc"
	"github.com/ZaguanLabs/gameloc/correction"
	"github.com/ZaguanLabs/gameloc/provider"
)

// Config is the root application configuration.
type Config struct {
	Provider   ProviderConfig   `yaml:"provider"`
	Batch      BatchConfig      `yaml:"batch"`
	Review     ReviewConfig     `yaml:"review"`
	Correction CorrectionConfig `yaml:"correction"`
	Cache      CacheConfig      `yaml:"cache"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Languages  []string         `yaml:"languages" env:"GAMELOC_LANGUAGES" env-separator:"," env-default:"zh,en,ja,ko,fr,de,es,ru,pt,it"`
}

// ProviderConfig selects the translation backend. Credentials are kept per
// kind so switching providers does not require re-entering keys.
type ProviderConfig struct {
	Name         string         `yaml:"name"           env:"GAMELOC_PROVIDER"       env-default:"openai"`
	Model        string         `yaml:"model"          env:"GAMELOC_MODEL"`
	Temperature  float32        `yaml:"temperature"    env:"GAMELOC_TEMPERATURE"    env-default:"0.3"`
	MaxTokens    int            `yaml:"max_tokens"     env:"GAMELOC_MAX_TOKENS"     env-default:"2000"`
	Timeout      time.Duration  `yaml:"timeout"        env:"GAMELOC_TIMEOUT"`
	RateLimitRPM int            `yaml:"rate_limit_rpm" env:"GAMELOC_RATE_LIMIT_RPM" env-default:"0"`
	OpenAI       APIConfig      `yaml:"openai"         env-prefix:"OPENAI_"`
	DeepSeek     APIConfig      `yaml:"deepseek"       env-prefix:"DEEPSEEK_"`
	Qwen         APIConfig      `yaml:"qwen"           env-prefix:"QWEN_"`
	Ollama       EndpointConfig `yaml:"ollama"         env-prefix:"OLLAMA_"`
}

// APIConfig holds credentials for a hosted provider.
type APIConfig struct {
	APIKey  string `yaml:"api_key"  env:"API_KEY"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	Model   string `yaml:"model"    env:"MODEL"`
}

// EndpointConfig holds settings for a local provider.
type EndpointConfig struct {
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	Model   string `yaml:"model"    env:"MODEL"`
}

// BatchConfig controls dispatch and retries.
type BatchConfig struct {
	Concurrency    int           `yaml:"concurrency"      env:"GAMELOC_CONCURRENCY"      env-default:"4"`
	MaxRetries     int           `yaml:"max_retries"      env:"GAMELOC_MAX_RETRIES"      env-default:"3"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" env:"GAMELOC_RETRY_BASE_DELAY" env-default:"1s"`
	RetryMaxDelay  time.Duration `yaml:"retry_max_delay"  env:"GAMELOC_RETRY_MAX_DELAY"  env-default:"30s"`
	Backoff        string        `yaml:"backoff"          env:"GAMELOC_BACKOFF"          env-default:"exponential"`
}

// ReviewConfig controls the review and auto-improve loop.
type ReviewConfig struct {
	Enabled          bool    `yaml:"enabled"            env:"GAMELOC_REVIEW"             env-default:"false"`
	Threshold        float64 `yaml:"threshold"          env:"GAMELOC_REVIEW_THRESHOLD"   env-default:"7"`
	AutoImprove      bool    `yaml:"auto_improve"       env:"GAMELOC_AUTO_IMPROVE"       env-default:"false"`
	MaxImproveRounds int     `yaml:"max_improve_rounds" env:"GAMELOC_MAX_IMPROVE_ROUNDS" env-default:"1"`
}

// CorrectionConfig controls correction matching.
type CorrectionConfig struct {
	CaseFold      bool `yaml:"case_fold"      env:"GAMELOC_CORRECTION_CASE_FOLD"      env-default:"false"`
	CollapseSpace bool `yaml:"collapse_space" env:"GAMELOC_CORRECTION_COLLAPSE_SPACE" env-default:"false"`
	SeedDefaults  bool `yaml:"seed_defaults"  env:"GAMELOC_CORRECTION_SEED_DEFAULTS"  env-default:"true"`
}

// CacheConfig selects the translation cache.
type CacheConfig struct {
	Backend    string `yaml:"backend"     env:"GAMELOC_CACHE"             env-default:"memory"`
	TTL        int    `yaml:"ttl"         env:"GAMELOC_CACHE_TTL"         env-default:"0"`
	MaxEntries int    `yaml:"max_entries" env:"GAMELOC_CACHE_MAX_ENTRIES" env-default:"0"`
	File       string `yaml:"file"        env:"GAMELOC_CACHE_FILE"`
	RedisURL   string `yaml:"redis_url"   env:"REDIS_URL"                 env-default:"redis://localhost:6379/0"`
	KeyPrefix  string `yaml:"key_prefix"  env:"GAMELOC_CACHE_KEY_PREFIX"  env-default:"gameloc:"`
}

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// DatabaseConfig holds SQLite settings. An empty path disables persistence.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DATABASE_PATH" env-default:"data/gameloc.db"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

// ProviderKind returns the configured provider kind.
func (c *Config) ProviderKind() (provider.Kind, error) {
	return provider.ParseKind(c.Provider.Name)
}

// ProviderSettings builds the provider factory input for the selected kind.
func (c *Config) ProviderSettings() (provider.Config, error) {
	kind, err := c.ProviderKind()
	if err != nil {
		return provider.Config{}, err
	}

	pc := provider.Config{
		Kind:        kind,
		Model:       c.Provider.Model,
		Temperature: provider.Float32(c.Provider.Temperature),
		MaxTokens:   c.Provider.MaxTokens,
		Timeout:     c.Provider.Timeout,
	}

	var api APIConfig
	switch kind {
	case provider.KindOpenAI:
		api = c.Provider.OpenAI
	case provider.KindDeepSeek:
		api = c.Provider.DeepSeek
	case provider.KindQwen:
		api = c.Provider.Qwen
	case provider.KindOllama:
		api = APIConfig{BaseURL: c.Provider.Ollama.BaseURL, Model: c.Provider.Ollama.Model}
	}
	pc.APIKey = api.APIKey
	pc.BaseURL = api.BaseURL
	if pc.Model == "" {
		pc.Model = api.Model
	}
	return pc, nil
}

// BatchOptions converts the batch and review sections into engine options.
func (c *Config) BatchOptions() gameloc.BatchOptions {
	return gameloc.BatchOptions{
		Concurrency: c.Batch.Concurrency,
		Retry: gameloc.RetryConfig{
			MaxRetries: c.Batch.MaxRetries,
			BaseDelay:  c.Batch.RetryBaseDelay,
			MaxDelay:   c.Batch.RetryMaxDelay,
			Backoff:    gameloc.BackoffPolicy(c.Batch.Backoff),
		},
		Review: gameloc.ReviewOptions{
			Enabled:          c.Review.Enabled,
			Threshold:        c.Review.Threshold,
			AutoImprove:      c.Review.AutoImprove,
			MaxImproveRounds: c.Review.MaxImproveRounds,
		},
	}
}

// Normalizer returns the correction matching policy.
func (c *Config) Normalizer() correction.Normalizer {
	return correction.Normalizer{
		CaseFold:      c.Correction.CaseFold,
		CollapseSpace: c.Correction.CollapseSpace,
	}
}
