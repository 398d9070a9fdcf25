package gameloc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ZaguanLabs/gameloc/cache"
	"github.com/ZaguanLabs/gameloc/correction"
)

// DefaultConcurrency is the number of units translated in parallel when
// BatchOptions.Concurrency is not set.
const DefaultConcurrency = 4

// DefaultReviewThreshold is the minimum acceptable review score.
const DefaultReviewThreshold = 7.0

// ReviewOptions controls the review and auto-improve loop.
type ReviewOptions struct {
	Enabled          bool
	Threshold        float64 // scores at or above are accepted
	AutoImprove      bool    // substitute improved translations below Threshold
	MaxImproveRounds int     // re-reviews allowed after a substitution
}

// BatchOptions configures one TranslateBatch call.
type BatchOptions struct {
	Concurrency int // maximum units in flight
	Retry       RetryConfig
	Review      ReviewOptions
	Progress    ProgressFunc
}

// DefaultBatchOptions returns the options used when none are configured.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Concurrency: DefaultConcurrency,
		Retry:       DefaultRetryConfig(),
		Review: ReviewOptions{
			Threshold:        DefaultReviewThreshold,
			MaxImproveRounds: 1,
		},
	}
}

func (o BatchOptions) withDefaults() BatchOptions {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Retry.MaxRetries < 0 {
		o.Retry.MaxRetries = 0
	}
	if o.Review.MaxImproveRounds < 0 {
		o.Review.MaxImproveRounds = 0
	}
	return o
}

// Engine translates batches of units. It is safe for concurrent use; all
// state shared between batches is the cache and the correction source.
type Engine struct {
	cache       TranslationCache
	corrections CorrectionSource
	history     HistorySink
	logger      *zap.Logger
	languages   []string
	retry       RetryConfig
	flight      singleflight.Group
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithCache sets the translation cache.
func WithCache(c TranslationCache) EngineOption {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithCorrections sets the correction table consulted before every provider call.
func WithCorrections(src CorrectionSource) EngineOption {
	return func(e *Engine) {
		e.corrections = src
	}
}

// WithHistory sets the sink that receives the records of every batch.
func WithHistory(sink HistorySink) EngineOption {
	return func(e *Engine) {
		e.history = sink
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLanguages restricts the language codes accepted in a pair. An empty
// list accepts any code.
func WithLanguages(codes ...string) EngineOption {
	return func(e *Engine) {
		e.languages = codes
	}
}

// WithReviewRetry sets the retry policy used by ReviewAndImprove.
func WithReviewRetry(cfg RetryConfig) EngineOption {
	return func(e *Engine) {
		e.retry = cfg
	}
}

// NewEngine creates an Engine. Without WithCache it keeps an unbounded
// in-memory cache for its lifetime.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:    zap.NewNop(),
		languages: SupportedLanguages,
		retry:     DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.cache == nil {
		e.cache = cache.NewInMemoryCache(0)
	}

	return e
}

// Cache returns the engine's translation cache.
func (e *Engine) Cache() TranslationCache {
	return e.cache
}

// TranslateBatch translates units from pair.Source to pair.Target.
//
// The returned slice has one result per unit in input order. A unit that
// fails validation or exhausts its retries carries Err and the batch goes on.
// A ConfigurationError stops dispatch and is returned together with the
// partial results. Cancelling ctx stops dispatch as well; units that did not
// finish carry the context error, which is also returned.
func (e *Engine) TranslateBatch(ctx context.Context, units []TranslationUnit, pair LanguagePair, p Provider, opts BatchOptions) ([]TranslationResult, error) {
	if p == nil {
		return nil, &ConfigurationError{Message: "no provider configured"}
	}

	pair = LanguagePair{Source: NormalizeLanguage(pair.Source), Target: NormalizeLanguage(pair.Target)}
	if err := ValidatePair(pair, e.languages); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	batchID := uuid.NewString()
	logger := e.logger.With(
		zap.String("batch_id", batchID),
		zap.String("provider", p.Name()),
		zap.String("pair", pair.String()),
	)

	results := make([]TranslationResult, len(units))
	if len(units) == 0 {
		return results, nil
	}

	var matcher *correction.Matcher
	if e.corrections != nil {
		matcher = e.corrections.Snapshot()
	}

	logger.Info("batch started",
		zap.Int("units", len(units)),
		zap.Int("concurrency", opts.Concurrency),
		zap.Int("corrections", matcher.Len()),
	)
	start := time.Now()

	progress := newProgressReporter(len(units), opts.Progress)
	done, err := forEachBounded(ctx, len(units), opts.Concurrency, func(gctx context.Context, i int) (bool, error) {
		res, err := e.translateUnit(gctx, logger, units[i], pair, p, matcher, opts)
		if err != nil {
			return false, err
		}
		// In-flight work finishing after cancellation is discarded.
		if gctx.Err() != nil {
			return false, nil
		}
		results[i] = res
		progress.report(i, res)
		return true, nil
	})
	progress.close()

	if err == nil && ctx.Err() != nil && !allDone(done) {
		err = ctx.Err()
	}
	if err != nil {
		for i, ok := range done {
			if !ok {
				results[i] = TranslationResult{Unit: units[i], Err: err}
			}
		}
	}

	e.saveHistory(ctx, logger, batchID, pair, results, done)

	fields := append(summarize(results),
		zap.Duration("elapsed", time.Since(start)),
	)
	switch {
	case IsConfigurationError(err):
		logger.Error("batch aborted", append(fields, zap.Error(err))...)
		return results, err
	case err != nil:
		logger.Warn("batch cancelled", append(fields, zap.Error(err))...)
		return results, err
	}
	logger.Info("batch finished", fields...)
	return results, nil
}

// translateUnit produces the result for one unit. Only a ConfigurationError
// is returned as an error; every other failure is recorded on the result.
func (e *Engine) translateUnit(ctx context.Context, logger *zap.Logger, unit TranslationUnit, pair LanguagePair, p Provider, matcher *correction.Matcher, opts BatchOptions) (TranslationResult, error) {
	start := time.Now()
	res := TranslationResult{Unit: unit}

	text := NormalizeText(unit.SourceText)
	if text == "" {
		res.Err = &ValidationError{Field: "source_text", Message: "text is empty"}
		res.Elapsed = time.Since(start)
		return res, nil
	}

	if entry, ok := matcher.Match(text, pair.Source, pair.Target); ok {
		logger.Debug("correction hit",
			zap.Stringer("location", unit.Location),
			zap.Int64("correction_id", entry.ID),
		)
		res.TranslatedText = entry.CorrectTranslation
		res.Origin = OriginCorrection
		res.Elapsed = time.Since(start)
		return res, nil
	}

	res.ProviderName = p.Name()
	key := CacheKey(text, pair.Source, pair.Target, p.Name())

	if cached, ok := e.cache.Get(key); ok {
		res.TranslatedText = cached
		res.Origin = OriginCache
	} else {
		call, err := e.callProvider(ctx, logger, key, text, pair, p, opts.Retry)
		res.Attempts = call.attempts
		if err != nil {
			if IsConfigurationError(err) {
				return res, err
			}
			if ctx.Err() == nil {
				logger.Warn("unit failed",
					zap.Stringer("location", unit.Location),
					zap.Int("attempts", call.attempts),
					zap.Error(err),
				)
			}
			res.Err = err
			res.Elapsed = time.Since(start)
			return res, nil
		}
		res.TranslatedText = call.text
		res.Origin = OriginProvider
		if !call.executed {
			res.Origin = OriginCache
		}
	}

	if opts.Review.Enabled {
		outcome := e.reviewAndImprove(ctx, logger, p, text, res.TranslatedText, pair, opts.Review, opts.Retry)
		res.TranslatedText = outcome.Translation
		res.Review = outcome.Review
		res.Improved = outcome.Improved
		res.ImproveRounds = outcome.Rounds
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

type providerCall struct {
	text     string
	attempts int
	executed bool // this caller issued the provider request
}

// flightResult is shared by every caller waiting on one flight. owner
// identifies the caller whose closure issued the provider request.
type flightResult struct {
	text     string
	attempts int
	owner    *providerCall
}

// callProvider translates text with retry. Concurrent callers for the same
// key share one request; only the caller that ran it sees executed=true.
// Each caller waits on its own ctx. A follower whose flight was ended by
// the leader's cancellation starts a new flight under its own ctx.
func (e *Engine) callProvider(ctx context.Context, logger *zap.Logger, key, text string, pair LanguagePair, p Provider, retry RetryConfig) (providerCall, error) {
	for {
		call := &providerCall{}
		ch := e.flight.DoChan(key, func() (interface{}, error) {
			return e.runFlight(ctx, logger, call, key, text, pair, p, retry)
		})

		var res singleflight.Result
		select {
		case <-ctx.Done():
			return providerCall{}, ctx.Err()
		case res = <-ch:
		}

		fr, _ := res.Val.(*flightResult)
		led := fr != nil && fr.owner == call
		if res.Err != nil {
			if !led && isContextError(res.Err) && ctx.Err() == nil {
				logger.Debug("shared provider call cancelled by another caller, retrying", zap.String("key", key))
				continue
			}
			out := providerCall{}
			if led {
				out.attempts = fr.attempts
				out.executed = true
			}
			return out, res.Err
		}

		out := providerCall{text: fr.text}
		if led {
			out.attempts = fr.attempts
			out.executed = true
		}
		return out, nil
	}
}

// runFlight is the body of one shared provider request, run under the
// context of the caller that started it.
func (e *Engine) runFlight(ctx context.Context, logger *zap.Logger, owner *providerCall, key, text string, pair LanguagePair, p Provider, retry RetryConfig) (*flightResult, error) {
	// An earlier flight may have filled the cache after our lookup.
	if cached, ok := e.cache.Get(key); ok {
		return &flightResult{text: cached}, nil
	}

	fr := &flightResult{owner: owner}
	translated, err := WithRetry(ctx, retry, func() (string, error) {
		fr.attempts++
		out, err := p.Translate(ctx, TranslateRequest{
			Text:       text,
			SourceLang: pair.Source,
			TargetLang: pair.Target,
		})
		if err == nil && strings.TrimSpace(out) == "" {
			err = &ProviderError{Provider: p.Name(), Message: "empty translation", Retryable: true}
		}
		if err != nil && IsRetryable(err) && fr.attempts <= retry.MaxRetries {
			logger.Warn("retrying provider call",
				zap.Int("attempt", fr.attempts),
				zap.Duration("delay", retry.Delay(fr.attempts-1)),
				zap.Error(err),
			)
		}
		return out, err
	})
	if err != nil {
		return fr, err
	}

	fr.text = strings.TrimSpace(translated)
	if err := e.cache.Set(key, fr.text); err != nil {
		logger.Warn("cache write failed", zap.Error(&CacheError{Message: "set", Cause: err}))
	}
	return fr, nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (e *Engine) saveHistory(ctx context.Context, logger *zap.Logger, batchID string, pair LanguagePair, results []TranslationResult, done []bool) {
	if e.history == nil {
		return
	}

	records := make([]Record, 0, len(results))
	for i, r := range results {
		if done[i] {
			records = append(records, r.Record(batchID, pair))
		}
	}
	if len(records) == 0 {
		return
	}

	if err := e.history.SaveRecords(context.WithoutCancel(ctx), records); err != nil {
		logger.Warn("saving history failed", zap.Error(err))
	}
}

func allDone(done []bool) bool {
	for _, ok := range done {
		if !ok {
			return false
		}
	}
	return true
}

func summarize(results []TranslationResult) []zap.Field {
	var corrections, cached, provided, failed, improved int
	for _, r := range results {
		switch {
		case r.Failed():
			failed++
		case r.Origin == OriginCorrection:
			corrections++
		case r.Origin == OriginCache:
			cached++
		case r.Origin == OriginProvider:
			provided++
		}
		if r.Improved {
			improved++
		}
	}
	return []zap.Field{
		zap.Int("corrections", corrections),
		zap.Int("cached", cached),
		zap.Int("translated", provided),
		zap.Int("failed", failed),
		zap.Int("improved", improved),
	}
}
