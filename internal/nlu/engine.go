// Package nlu turns raw user text into an intent and extracted parameters
// by calling an OpenAI-compatible chat-completions API with per-intent
// tool definitions.
package nlu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
)

// ErrUnderstanding reports that the upstream model call failed.
var ErrUnderstanding = errors.New("understanding failed")

// Engine is the language-understanding contract consumed by the bot.
type Engine interface {
	Understand(ctx context.Context, input string, state *domain.DialogState) (domain.Understanding, error)
}

// LLMEngine implements Engine over an OpenAI-compatible API. DeepSeek and
// other compatible providers work via a custom base URL.
type LLMEngine struct {
	client      *openai.Client
	model       string
	temperature float32
	log         *logging.Logger
}

// Config configures the LLM engine.
type Config struct {
	APIKey  string
	BaseURL string // empty for api.openai.com
	Model   string
}

// NewLLMEngine creates the engine. An empty API key is an error: the
// caller should fall back to a mock or refuse to start.
func NewLLMEngine(cfg Config, log *logging.Logger) (*LLMEngine, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("nlu: missing API key")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}
	return &LLMEngine{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: 0.3,
		log:         log.Sub("nlu"),
	}, nil
}

// Understand classifies one utterance. Recent dialog history is passed as
// conversational context so follow-up turns resolve correctly.
func (e *LLMEngine) Understand(ctx context.Context, input string, state *domain.DialogState) (domain.Understanding, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(state)},
	}
	if state != nil {
		for _, turn := range state.RecentHistory(6) {
			role := openai.ChatMessageRoleUser
			if turn.Role == "assistant" {
				role = openai.ChatMessageRoleAssistant
			}
			messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
		}
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: input,
	})

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Messages:    messages,
		Tools:       toolDefinitions,
		Temperature: e.temperature,
	})
	if err != nil {
		return domain.Understanding{}, fmt.Errorf("%w: %v", ErrUnderstanding, err)
	}
	if len(resp.Choices) == 0 {
		return domain.Understanding{}, fmt.Errorf("%w: empty response", ErrUnderstanding)
	}

	return e.parseChoice(resp.Choices[0], input), nil
}

func (e *LLMEngine) parseChoice(choice openai.ChatCompletionChoice, input string) domain.Understanding {
	msg := choice.Message

	if len(msg.ToolCalls) == 0 {
		// No tool selected: treat the turn as small talk.
		return domain.Understanding{
			Intent:     domain.IntentSmallTalk,
			Parameters: map[string]any{},
			Confidence: 0.5,
			RawInput:   input,
		}
	}

	call := msg.ToolCalls[0]
	params := map[string]any{}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &params); err != nil {
		e.log.Warn().Err(err).Str("function", call.Function.Name).
			Msg("malformed tool arguments, continuing with empty parameters")
		params = map[string]any{}
	}

	// Drop nulls and empty strings so they never shadow tracked slots.
	for k, v := range params {
		if v == nil {
			delete(params, k)
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			delete(params, k)
		}
	}

	return domain.Understanding{
		Intent:     call.Function.Name,
		Parameters: params,
		Confidence: 0.9,
		RawInput:   input,
	}
}
