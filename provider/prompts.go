package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZaguanLabs/gameloc"
)

func buildTranslationPrompt(req TranslateRequest) (system, user string) {
	sourceName := gameloc.GetLanguageName(req.SourceLang)
	targetName := gameloc.GetLanguageName(req.TargetLang)

	system = fmt.Sprintf(`# Role
You are a senior game localization translator, fluent in %[1]s and %[2]s, familiar with the cultural differences between their players and with established game industry terminology.

# Task
Translate the %[1]s text provided by the user into %[2]s accurately and professionally.

# Requirements
- Understand the context of the source text and convey its meaning precisely.
- Keep the tone, style and formatting of the source. Use standard translations for game terms and proper nouns.
- Match the language habits and culture of %[2]s-speaking players. Avoid literal translation.
- Do NOT translate placeholders or markup (e.g., {0}, {name}, %%d, <color=red>, \n).
- Output only the final translation, with no explanations, notes or quotes.`, sourceName, targetName)

	return system, req.Text
}

func buildReviewPrompt(req ReviewRequest) (system, user string) {
	sourceName := gameloc.GetLanguageName(req.SourceLang)
	targetName := gameloc.GetLanguageName(req.TargetLang)

	system = fmt.Sprintf(`# Role
You are a senior game localization reviewer with a strong command of %[1]s and %[2]s and deep knowledge of game terminology. You find problems in translations and propose professional fixes.

# Criteria
1. Accuracy: the translation conveys the meaning of the source.
2. Fluency: the translation reads naturally in %[2]s.
3. Consistency: game terms are translated in a standard, uniform way.
4. Cultural fit: the translation suits %[2]s-speaking players.
5. Format: formatting, placeholders and tone of the source are preserved.

# Format
Return only a JSON object:
{
  "quality_score": <number from 1 to 10>,
  "is_acceptable": <true or false>,
  "issues": [<problems found>],
  "suggestions": [<improvement suggestions>],
  "improved_translation": "<the improved translation, or the original translation if no change is needed>"
}`, sourceName, targetName)

	user = fmt.Sprintf("Source (%s): %s\n\nTranslation (%s): %s", sourceName, req.Original, targetName, req.Translated)
	return system, user
}

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// stripThinking removes <think>...</think> reasoning blocks emitted by
// reasoning models, including an unterminated trailing block.
func stripThinking(s string) string {
	s = thinkBlock.ReplaceAllString(s, "")
	if i := strings.Index(s, "<think>"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// cleanTranslation post-processes raw model output into a translation.
func cleanTranslation(s string) string {
	s = stripThinking(s)
	s = strings.TrimPrefix(s, "Translation:")
	return strings.TrimSpace(s)
}

// score accepts a JSON number or a numeric string.
type score float64

func (s *score) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*s = score(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return err
	}
	*s = score(f)
	return nil
}

type reviewPayload struct {
	QualityScore        *score   `json:"quality_score"`
	IsAcceptable        *bool    `json:"is_acceptable"`
	Issues              []string `json:"issues"`
	Suggestions         []string `json:"suggestions"`
	ImprovedTranslation string   `json:"improved_translation"`
}

// UnparsableReviewScore is the neutral score used when a review response
// cannot be parsed.
const UnparsableReviewScore = 5

// parseReview extracts a ReviewResult from model output. Output that cannot
// be parsed yields a neutral, acceptable review that keeps the translation.
func parseReview(content, translated string) *gameloc.ReviewResult {
	body := extractJSONObject(stripThinking(content))

	var payload reviewPayload
	if body == "" || json.Unmarshal([]byte(body), &payload) != nil || payload.QualityScore == nil {
		return &gameloc.ReviewResult{
			Score:               UnparsableReviewScore,
			Acceptable:          true,
			Issues:              []string{"review response could not be parsed"},
			Suggestions:         []string{"check the model output format"},
			ImprovedTranslation: translated,
		}
	}

	result := &gameloc.ReviewResult{
		Score:               clampScore(float64(*payload.QualityScore)),
		Issues:              payload.Issues,
		Suggestions:         payload.Suggestions,
		ImprovedTranslation: strings.TrimSpace(payload.ImprovedTranslation),
	}
	if payload.IsAcceptable != nil {
		result.Acceptable = *payload.IsAcceptable
	} else {
		result.Acceptable = result.Score >= gameloc.DefaultReviewThreshold
	}
	return result
}

// extractJSONObject returns the outermost {...} span of s, looking inside a
// fenced code block first.
func extractJSONObject(s string) string {
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = rest[:j]
		}
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func clampScore(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 10:
		return 10
	}
	return f
}
