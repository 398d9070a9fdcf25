package gameloc

import (
	"context"
	"fmt"
	"time"
)

// Origin records where a translation came from.
type Origin string

const (
	// OriginCorrection means the correction table supplied the translation.
	OriginCorrection Origin = "correction"
	// OriginCache means a previously stored translation was reused.
	OriginCache Origin = "cache"
	// OriginProvider means a live provider call produced the translation.
	OriginProvider Origin = "provider"
)

// Location identifies where a unit was extracted from. The engine never
// interprets it.
type Location struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (l Location) String() string {
	return fmt.Sprintf("R%dC%d", l.Row, l.Column)
}

// TranslationUnit is one piece of source text to translate.
type TranslationUnit struct {
	Location   Location
	SourceText string
}

// LanguagePair is a source and target language code.
type LanguagePair struct {
	Source string
	Target string
}

func (p LanguagePair) String() string {
	return p.Source + "->" + p.Target
}

// ReviewResult is an AI quality assessment of one translation.
type ReviewResult struct {
	Score               float64  `json:"quality_score"` // 0 to 10
	Acceptable          bool     `json:"is_acceptable"`
	Issues              []string `json:"issues"`
	Suggestions         []string `json:"suggestions"`
	ImprovedTranslation string   `json:"improved_translation"`
}

// TranslationResult is the outcome for one unit of a batch.
type TranslationResult struct {
	Unit           TranslationUnit
	TranslatedText string
	Origin         Origin
	ProviderName   string // empty for corrections
	Elapsed        time.Duration
	Attempts       int // provider calls made for this unit

	Review        *ReviewResult // nil when review was not performed or failed
	Improved      bool          // an improved translation replaced the original
	ImproveRounds int

	Err error // non-nil marks the unit as failed
}

// Failed reports whether the unit failed.
func (r TranslationResult) Failed() bool {
	return r.Err != nil
}

// Record is the persistence view of a completed unit.
type Record struct {
	BatchID        string        `json:"batch_id"`
	Location       Location      `json:"location"`
	SourceText     string        `json:"source_text"`
	TranslatedText string        `json:"translated_text"`
	SourceLang     string        `json:"source_lang"`
	TargetLang     string        `json:"target_lang"`
	Origin         Origin        `json:"origin,omitempty"`
	ProviderName   string        `json:"provider_name,omitempty"`
	Elapsed        time.Duration `json:"elapsed"`
	ReviewScore    *float64      `json:"review_score,omitempty"`
	Issues         []string      `json:"issues,omitempty"`
	Improved       bool          `json:"improved,omitempty"`
	Error          string        `json:"error,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Record converts the result into its persistence form.
func (r TranslationResult) Record(batchID string, pair LanguagePair) Record {
	rec := Record{
		BatchID:        batchID,
		Location:       r.Unit.Location,
		SourceText:     r.Unit.SourceText,
		TranslatedText: r.TranslatedText,
		SourceLang:     pair.Source,
		TargetLang:     pair.Target,
		Origin:         r.Origin,
		ProviderName:   r.ProviderName,
		Elapsed:        r.Elapsed,
		Improved:       r.Improved,
		CreatedAt:      time.Now().UTC(),
	}
	if r.Review != nil {
		score := r.Review.Score
		rec.ReviewScore = &score
		rec.Issues = r.Review.Issues
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	return rec
}

// HistorySink receives the records of every completed batch.
type HistorySink interface {
	SaveRecords(ctx context.Context, records []Record) error
}

// Progress is reported after each unit completes.
type Progress struct {
	Completed int // units finished so far, including this one
	Total     int
	Index     int // position of Result in the batch
	Result    TranslationResult
}

// ProgressFunc observes batch progress. Calls are serialized.
type ProgressFunc func(Progress)
