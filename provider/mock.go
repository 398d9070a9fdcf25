package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ZaguanLabs/gameloc"
)

// MockProvider is a scripted provider for tests and examples. It is safe for
// concurrent use.
type MockProvider struct {
	ProviderName string                  // default: "mock"
	Translations map[string]string       // source text to translation
	Errors       map[string][]error      // per source text, returned in order before succeeding
	Reviews      []*gameloc.ReviewResult // returned in order; the last one repeats
	ReviewErrors []error                 // returned in order before Reviews
	NoReview     bool                    // hide the review capability
	Delay        time.Duration           // simulated latency per call

	mu             sync.Mutex
	translateCalls int
	reviewCalls    int
	inFlight       int
	maxInFlight    int
	requests       []TranslateRequest
	reviewRequests []ReviewRequest
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":             "你好",
			"World":             "世界",
			"Start Game":        "开始游戏",
			"Defeat the dragon": "击败巨龙",
		},
	}
}

// Name returns the provider name.
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// Translate returns the scripted translation, or the text in brackets.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	m.mu.Lock()
	m.translateCalls++
	m.requests = append(m.requests, req)
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	var scripted error
	if queue := m.Errors[req.Text]; len(queue) > 0 {
		scripted = queue[0]
		m.Errors[req.Text] = queue[1:]
	}
	translation, ok := m.Translations[req.Text]
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if err := m.wait(ctx); err != nil {
		return "", err
	}
	if scripted != nil {
		return "", scripted
	}
	if !ok {
		translation = fmt.Sprintf("[%s]", req.Text)
	}
	return translation, nil
}

// Review returns the next scripted review.
func (m *MockProvider) Review(ctx context.Context, req ReviewRequest) (*gameloc.ReviewResult, error) {
	m.mu.Lock()
	m.reviewCalls++
	m.reviewRequests = append(m.reviewRequests, req)
	var scripted error
	if len(m.ReviewErrors) > 0 {
		scripted = m.ReviewErrors[0]
		m.ReviewErrors = m.ReviewErrors[1:]
	}
	var review *gameloc.ReviewResult
	switch {
	case len(m.Reviews) > 1:
		review = m.Reviews[0]
		m.Reviews = m.Reviews[1:]
	case len(m.Reviews) == 1:
		review = m.Reviews[0]
	}
	m.mu.Unlock()

	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if scripted != nil {
		return nil, scripted
	}
	if review == nil {
		return &gameloc.ReviewResult{Score: 10, Acceptable: true, ImprovedTranslation: req.Translated}, nil
	}
	copied := *review
	return &copied, nil
}

// SupportsReview reports whether Review may be used.
func (m *MockProvider) SupportsReview() bool {
	return !m.NoReview
}

func (m *MockProvider) wait(ctx context.Context) error {
	if m.Delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.Delay):
		return nil
	}
}

// TranslateCalls returns how many times Translate was called.
func (m *MockProvider) TranslateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.translateCalls
}

// ReviewCalls returns how many times Review was called.
func (m *MockProvider) ReviewCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewCalls
}

// MaxInFlight returns the highest number of concurrent Translate calls seen.
func (m *MockProvider) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// Requests returns a copy of every translate request received.
func (m *MockProvider) Requests() []TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranslateRequest(nil), m.requests...)
}

// ReviewRequests returns a copy of every review request received.
func (m *MockProvider) ReviewRequests() []ReviewRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ReviewRequest(nil), m.reviewRequests...)
}

// Reset clears the call counters and recorded requests.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translateCalls = 0
	m.reviewCalls = 0
	m.maxInFlight = 0
	m.requests = nil
	m.reviewRequests = nil
}

// Verify MockProvider implements the provider interfaces
var (
	_ Provider         = (*MockProvider)(nil)
	_ gameloc.Reviewer = (*MockProvider)(nil)
)
