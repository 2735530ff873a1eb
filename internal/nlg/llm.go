package nlg

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIWriter rewrites template drafts through an OpenAI-compatible chat
// endpoint.
type OpenAIWriter struct {
	client *openai.Client
	model  string
}

// WriterConfig configures the generative rewrite path.
type WriterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewOpenAIWriter creates a writer. BaseURL switches to any
// OpenAI-compatible endpoint such as DeepSeek.
func NewOpenAIWriter(cfg WriterConfig) *OpenAIWriter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}
	return &OpenAIWriter{client: openai.NewClientWithConfig(clientCfg), model: model}
}

// Rewrite sends the draft for a natural-language polish. The caller keeps
// the draft on any error.
func (w *OpenAIWriter) Rewrite(ctx context.Context, system, draft string) (string, error) {
	resp, err := w.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       w.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: draft},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
