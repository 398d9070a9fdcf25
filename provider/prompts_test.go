package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTranslationPrompt(t *testing.T) {
	system, user := buildTranslationPrompt(TranslateRequest{Text: "Defeat the dragon", SourceLang: "en", TargetLang: "ja"})
	assert.Contains(t, system, "English")
	assert.Contains(t, system, "Japanese")
	assert.Contains(t, system, "{0}")
	assert.Equal(t, "Defeat the dragon", user)
}

func TestBuildReviewPrompt(t *testing.T) {
	system, user := buildReviewPrompt(ReviewRequest{Original: "Hello", Translated: "你好", SourceLang: "en", TargetLang: "zh"})
	assert.Contains(t, system, "quality_score")
	assert.Contains(t, system, "improved_translation")
	assert.Contains(t, user, "Hello")
	assert.Contains(t, user, "你好")
}

func TestCleanTranslation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"你好", "你好"},
		{"  你好 \n", "你好"},
		{"<think>\nreasoning\n</think>\n你好", "你好"},
		{"<think>a</think>你<think>b</think>好", "你好"},
		{"你好<think>never closed", "你好"},
		{"Translation: 你好", "你好"},
		{"<think>only thoughts</think>", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanTranslation(tt.in), "input %q", tt.in)
	}
}

func TestParseReview(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		r := parseReview(`{"quality_score": 8, "is_acceptable": true, "issues": [], "suggestions": ["ok"], "improved_translation": " 你好 "}`, "你好")
		assert.InDelta(t, 8.0, r.Score, 0.001)
		assert.True(t, r.Acceptable)
		assert.Equal(t, []string{"ok"}, r.Suggestions)
		assert.Equal(t, "你好", r.ImprovedTranslation)
	})

	t.Run("fenced with prose", func(t *testing.T) {
		content := "Here is my review:\n```json\n{\"quality_score\": 4, \"is_acceptable\": false, \"improved_translation\": \"开始游戏\"}\n```\nThanks."
		r := parseReview(content, "启动游戏")
		assert.InDelta(t, 4.0, r.Score, 0.001)
		assert.False(t, r.Acceptable)
		assert.Equal(t, "开始游戏", r.ImprovedTranslation)
	})

	t.Run("thinking then json", func(t *testing.T) {
		r := parseReview(`<think>{"quality_score": 1}</think>{"quality_score": 9.5}`, "x")
		assert.InDelta(t, 9.5, r.Score, 0.001)
		assert.True(t, r.Acceptable, "acceptability defaults from score")
	})

	t.Run("string score", func(t *testing.T) {
		r := parseReview(`{"quality_score": " 6 "}`, "x")
		assert.InDelta(t, 6.0, r.Score, 0.001)
		assert.False(t, r.Acceptable)
	})

	t.Run("clamped", func(t *testing.T) {
		assert.InDelta(t, 10.0, parseReview(`{"quality_score": 42}`, "x").Score, 0.001)
		assert.InDelta(t, 0.0, parseReview(`{"quality_score": -3}`, "x").Score, 0.001)
	})

	for name, content := range map[string]string{
		"not json":      "The translation looks fine to me.",
		"broken json":   `{"quality_score": 7,`,
		"missing score": `{"is_acceptable": false}`,
		"bad score":     `{"quality_score": "great"}`,
		"empty":         "",
	} {
		t.Run("fallback "+name, func(t *testing.T) {
			r := parseReview(content, "你好")
			assert.InDelta(t, float64(UnparsableReviewScore), r.Score, 0.001)
			assert.True(t, r.Acceptable)
			assert.Equal(t, "你好", r.ImprovedTranslation)
			assert.NotEmpty(t, r.Issues)
		})
	}
}
