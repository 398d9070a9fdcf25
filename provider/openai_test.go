package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaguanLabs/gameloc"
)

func chatServer(t *testing.T, status int, content string, seen *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/chat/completions":
			if seen != nil {
				require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
			}
			if status != http.StatusOK {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":{"message":"upstream said no","type":"error"}}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "chatcmpl-1",
				"object": "chat.completion",
				"choices": []map[string]any{{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": content},
					"finish_reason": "stop",
				}},
			})
		case "/models":
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"deepseek-chat"},{"id":"deepseek-reasoner"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOpenAI(url string) *OpenAIProvider {
	return NewOpenAIProvider(OpenAIConfig{Name: "deepseek", APIKey: "test", BaseURL: url, Model: "deepseek-chat"})
}

func TestOpenAIProvider_Translate(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := chatServer(t, http.StatusOK, "  开始游戏\n", &seen)
	p := newTestOpenAI(srv.URL)

	got, err := p.Translate(context.Background(), TranslateRequest{Text: "Start Game", SourceLang: "en", TargetLang: "zh"})
	require.NoError(t, err)
	assert.Equal(t, "开始游戏", got)

	assert.Equal(t, "deepseek-chat", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, seen.Messages[0].Role)
	assert.Contains(t, seen.Messages[0].Content, "English")
	assert.Contains(t, seen.Messages[0].Content, "Chinese")
	assert.Equal(t, "Start Game", seen.Messages[1].Content)
	assert.InDelta(t, DefaultTemperature, seen.Temperature, 0.001)
	assert.Equal(t, DefaultMaxTokens, seen.MaxTokens)
	assert.Nil(t, seen.ResponseFormat)
}

func TestOpenAIProvider_ZeroTemperature(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := chatServer(t, http.StatusOK, "开始游戏", &seen)
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test", BaseURL: srv.URL, Temperature: Float32(0)})

	_, err := p.Translate(context.Background(), TranslateRequest{Text: "Start Game", SourceLang: "en", TargetLang: "zh"})
	require.NoError(t, err)
	assert.InDelta(t, 0, seen.Temperature, 0.0001)
	assert.NotEqual(t, DefaultTemperature, seen.Temperature)
}

func TestOpenAIProvider_TranslateStripsThinking(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "<think>the user wants a menu label</think>\n开始游戏", nil)
	p := newTestOpenAI(srv.URL)

	got, err := p.Translate(context.Background(), TranslateRequest{Text: "Start Game", SourceLang: "en", TargetLang: "zh"})
	require.NoError(t, err)
	assert.Equal(t, "开始游戏", got)
}

func TestOpenAIProvider_EmptyTranslationIsRetryable(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "<think>hmm</think>", nil)
	p := newTestOpenAI(srv.URL)

	_, err := p.Translate(context.Background(), TranslateRequest{Text: "Start Game", SourceLang: "en", TargetLang: "zh"})
	require.Error(t, err)
	assert.True(t, gameloc.IsRetryable(err))
}

func TestOpenAIProvider_ErrorClassification(t *testing.T) {
	tests := []struct {
		status    int
		config    bool
		retryable bool
	}{
		{http.StatusUnauthorized, true, false},
		{http.StatusForbidden, true, false},
		{http.StatusNotFound, true, false},
		{http.StatusTooManyRequests, false, true},
		{http.StatusInternalServerError, false, true},
		{http.StatusBadGateway, false, true},
		{http.StatusBadRequest, false, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := chatServer(t, tt.status, "", nil)
			p := newTestOpenAI(srv.URL)

			_, err := p.Translate(context.Background(), TranslateRequest{Text: "Hello", SourceLang: "en", TargetLang: "zh"})
			require.Error(t, err)
			assert.Equal(t, tt.config, gameloc.IsConfigurationError(err))
			assert.Equal(t, tt.retryable, gameloc.IsRetryable(err))

			if !tt.config {
				var pe *gameloc.ProviderError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, "deepseek", pe.Provider)
				assert.Equal(t, tt.status, pe.StatusCode)
			}
		})
	}
}

func TestOpenAIProvider_Review(t *testing.T) {
	var seen openai.ChatCompletionRequest
	body := `{"quality_score": 6, "is_acceptable": false, "issues": ["too literal"], "suggestions": ["use the common term"], "improved_translation": "开始游戏"}`
	srv := chatServer(t, http.StatusOK, body, &seen)
	p := newTestOpenAI(srv.URL)

	review, err := p.Review(context.Background(), ReviewRequest{
		Original: "Start Game", Translated: "启动游戏", SourceLang: "en", TargetLang: "zh",
	})
	require.NoError(t, err)
	assert.InDelta(t, 6.0, review.Score, 0.001)
	assert.False(t, review.Acceptable)
	assert.Equal(t, []string{"too literal"}, review.Issues)
	assert.Equal(t, "开始游戏", review.ImprovedTranslation)

	require.NotNil(t, seen.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, seen.ResponseFormat.Type)
	assert.Contains(t, seen.Messages[1].Content, "Start Game")
	assert.Contains(t, seen.Messages[1].Content, "启动游戏")
}

func TestOpenAIProvider_Models(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "", nil)
	p := newTestOpenAI(srv.URL)

	models, err := p.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"deepseek-chat", "deepseek-reasoner"}, models)
}

func TestOpenAIProvider_Defaults(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "gpt-3.5-turbo", p.Model())
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("read: connection reset by peer")))
	assert.True(t, isRetryableError(errors.New("unexpected EOF")))
	assert.False(t, isRetryableError(errors.New("invalid model name")))
	assert.False(t, isRetryableError(context.Canceled))
}
