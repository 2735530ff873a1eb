package nlu

import (
	"context"

	"github.com/soyeahso/telcoassist/internal/domain"
)

// MockEngine is a test double for Engine. UnderstandFunc runs per call;
// when nil, every utterance is small talk.
type MockEngine struct {
	UnderstandFunc func(ctx context.Context, input string, state *domain.DialogState) (domain.Understanding, error)
	Calls          []string
}

func (m *MockEngine) Understand(ctx context.Context, input string, state *domain.DialogState) (domain.Understanding, error) {
	m.Calls = append(m.Calls, input)
	if m.UnderstandFunc != nil {
		return m.UnderstandFunc(ctx, input, state)
	}
	return domain.Understanding{
		Intent:     domain.IntentSmallTalk,
		Parameters: map[string]any{},
		Confidence: 0.5,
		RawInput:   input,
	}, nil
}
