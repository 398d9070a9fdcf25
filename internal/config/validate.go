package config

import (
	"fmt"
	"strings"

	"github.com/ZaguanLabs/gameloc"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if _, err := c.ProviderKind(); err != nil {
		return fmt.Errorf("provider.name: %w", err)
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		return fmt.Errorf("provider.temperature must be in [0, 2] (got %v)", c.Provider.Temperature)
	}
	if c.Provider.RateLimitRPM < 0 {
		return fmt.Errorf("provider.rate_limit_rpm must be >= 0 (got %d)", c.Provider.RateLimitRPM)
	}

	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be >= 1 (got %d)", c.Batch.Concurrency)
	}
	if c.Batch.MaxRetries < 0 {
		return fmt.Errorf("batch.max_retries must be >= 0 (got %d)", c.Batch.MaxRetries)
	}
	switch gameloc.BackoffPolicy(c.Batch.Backoff) {
	case gameloc.BackoffExponential, gameloc.BackoffLinear, gameloc.BackoffConstant:
	default:
		return fmt.Errorf("batch.backoff must be exponential, linear or constant (got %q)", c.Batch.Backoff)
	}

	if c.Review.Threshold < 0 || c.Review.Threshold > 10 {
		return fmt.Errorf("review.threshold must be in [0, 10] (got %v)", c.Review.Threshold)
	}
	if c.Review.MaxImproveRounds < 0 {
		return fmt.Errorf("review.max_improve_rounds must be >= 0 (got %d)", c.Review.MaxImproveRounds)
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("cache.backend must be %s or %s (got %q)", CacheMemory, CacheRedis, c.Cache.Backend)
	}

	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json (got %q)", c.Log.Format)
	}

	if len(c.Languages) < 2 {
		return fmt.Errorf("languages must list at least two codes (got %d)", len(c.Languages))
	}
	for i, code := range c.Languages {
		c.Languages[i] = gameloc.NormalizeLanguage(code)
	}

	return nil
}
