package nlu

import (
	"context"
	"io"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
)

func testEngine() *LLMEngine {
	return &LLMEngine{log: logging.NewWriter(io.Discard, "error")}
}

func toolChoice(name, arguments string) openai.ChatCompletionChoice {
	return openai.ChatCompletionChoice{
		Message: openai.ChatCompletionMessage{
			ToolCalls: []openai.ToolCall{{
				Type:     openai.ToolTypeFunction,
				Function: openai.FunctionCall{Name: name, Arguments: arguments},
			}},
		},
	}
}

func TestNewLLMEngineRequiresAPIKey(t *testing.T) {
	_, err := NewLLMEngine(Config{}, logging.NewWriter(io.Discard, "error"))
	assert.Error(t, err)

	e, err := NewLLMEngine(Config{APIKey: "sk-test"}, logging.NewWriter(io.Discard, "error"))
	require.NoError(t, err)
	assert.Equal(t, "deepseek-chat", e.model)
}

func TestParseChoiceNoToolCallIsSmallTalk(t *testing.T) {
	e := testEngine()
	choice := openai.ChatCompletionChoice{
		Message: openai.ChatCompletionMessage{Content: "hello there!"},
	}

	u := e.parseChoice(choice, "hi")
	assert.Equal(t, domain.IntentSmallTalk, u.Intent)
	assert.Equal(t, 0.5, u.Confidence)
	assert.Equal(t, "hi", u.RawInput)
	assert.Empty(t, u.Parameters)
}

func TestParseChoiceToolCall(t *testing.T) {
	e := testEngine()
	u := e.parseChoice(toolChoice("query_packages", `{"price_max": 100, "sort_by": "price_asc"}`),
		"plans under 100")

	assert.Equal(t, domain.IntentQueryPlans, u.Intent)
	assert.Equal(t, 0.9, u.Confidence)
	assert.Equal(t, 100.0, u.Parameters["price_max"])
	assert.Equal(t, "price_asc", u.Parameters["sort_by"])
}

func TestParseChoicePrunesNullsAndEmptyStrings(t *testing.T) {
	e := testEngine()
	u := e.parseChoice(toolChoice("change_package",
		`{"phone": "13812345678", "new_package_name": "", "note": null}`),
		"switch my plan")

	assert.Equal(t, "13812345678", u.Parameters["phone"])
	assert.NotContains(t, u.Parameters, "new_package_name")
	assert.NotContains(t, u.Parameters, "note")
}

func TestParseChoiceMalformedArguments(t *testing.T) {
	e := testEngine()
	u := e.parseChoice(toolChoice("query_usage", `{not json`), "check usage")

	assert.Equal(t, "query_usage", u.Intent)
	assert.Empty(t, u.Parameters)
}

func TestSystemPromptFoldsInState(t *testing.T) {
	assert.Equal(t, basePrompt, systemPrompt(nil))

	state := domain.NewDialogState("s1")
	state.UserPhone = "13812345678"
	state.CurrentIntent = domain.IntentQueryPlans

	prompt := systemPrompt(state)
	assert.Contains(t, prompt, "13812345678")
	assert.Contains(t, prompt, domain.IntentQueryPlans)
}

func TestToolDefinitionsCoverBusinessIntents(t *testing.T) {
	names := make(map[string]bool)
	for _, tool := range toolDefinitions {
		names[tool.Function.Name] = true
	}

	for _, intent := range []string{
		domain.IntentQueryPlans, domain.IntentQueryCurrentPlan,
		domain.IntentQueryPlanDetail, domain.IntentChangePlan,
		domain.IntentQueryUsage, domain.IntentConsultation,
	} {
		assert.True(t, names[intent], "missing tool for %s", intent)
	}
	assert.False(t, names[domain.IntentSmallTalk], "small talk falls out of the no-tool-call path")
}

func TestMockEngineDefaultsToSmallTalk(t *testing.T) {
	m := &MockEngine{}
	u, err := m.Understand(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSmallTalk, u.Intent)
	assert.Equal(t, []string{"hello"}, m.Calls)
}
