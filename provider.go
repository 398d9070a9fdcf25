package gameloc

import (
	"context"

	"github.com/ZaguanLabs/gameloc/correction"
)

// TranslateRequest contains the parameters for a single-text translation.
type TranslateRequest struct {
	Text       string
	SourceLang string
	TargetLang string
}

// ReviewRequest contains a translated pair to be assessed.
type ReviewRequest struct {
	Original   string
	Translated string
	SourceLang string
	TargetLang string
}

// Provider is the interface for AI translation backends.
type Provider interface {
	// Name identifies the provider in cache keys and results.
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

// Reviewer is the optional review capability of a Provider.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (*ReviewResult, error)
}

// reviewSupport lets a provider, or a wrapper around one, report whether the
// Review method it exposes is actually usable.
type reviewSupport interface {
	SupportsReview() bool
}

// ReviewerOf returns the review capability of p, if it has one.
func ReviewerOf(p Provider) (Reviewer, bool) {
	r, ok := p.(Reviewer)
	if !ok {
		return nil, false
	}
	if s, ok := p.(reviewSupport); ok && !s.SupportsReview() {
		return nil, false
	}
	return r, true
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// CorrectionSource provides the correction snapshot used for one batch.
// *correction.Table satisfies it.
type CorrectionSource interface {
	Snapshot() *correction.Matcher
}
