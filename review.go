package gameloc

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// ImproveOutcome is the result of the review and auto-improve loop.
type ImproveOutcome struct {
	Translation string        // final translation
	Review      *ReviewResult // last evaluation performed, nil if none
	Rounds      int           // re-reviews consumed after substitutions
	Improved    bool          // Translation differs from the input
}

// ReviewAndImprove reviews translated and, when auto-improve is on and the
// score is below the threshold, substitutes the reviewer's improved
// translation. A provider without review support, or a review call that
// fails, yields the input translation and a nil review.
func (e *Engine) ReviewAndImprove(ctx context.Context, p Provider, original, translated string, pair LanguagePair, opts ReviewOptions) ImproveOutcome {
	return e.reviewAndImprove(ctx, e.logger, p, original, translated, pair, opts, e.retry)
}

func (e *Engine) reviewAndImprove(ctx context.Context, logger *zap.Logger, p Provider, original, translated string, pair LanguagePair, opts ReviewOptions, retry RetryConfig) ImproveOutcome {
	unchanged := ImproveOutcome{Translation: translated}

	reviewer, ok := ReviewerOf(p)
	if !ok {
		return unchanged
	}

	out := unchanged
	candidate := translated
	for {
		review, err := WithRetry(ctx, retry, func() (*ReviewResult, error) {
			return reviewer.Review(ctx, ReviewRequest{
				Original:   original,
				Translated: candidate,
				SourceLang: pair.Source,
				TargetLang: pair.Target,
			})
		})
		if err == nil && review == nil {
			err = &ProviderError{Provider: p.Name(), Message: "empty review result"}
		}
		if err != nil {
			logger.Warn("review failed, keeping translation", zap.Error(err))
			return unchanged
		}

		out.Review = review
		if review.Score >= opts.Threshold || !opts.AutoImprove {
			return out
		}

		improved := strings.TrimSpace(review.ImprovedTranslation)
		if improved == "" || improved == candidate {
			return out
		}

		logger.Debug("substituting improved translation",
			zap.Float64("score", review.Score),
			zap.Int("round", out.Rounds),
		)
		candidate = improved
		out.Translation = candidate
		out.Improved = true

		if out.Rounds >= opts.MaxImproveRounds {
			return out
		}
		out.Rounds++
	}
}
