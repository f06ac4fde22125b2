// Package llm wraps the OpenAI chat-completions API behind a small client
// that maps transport and HTTP failures to typed outcomes.
package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/supportdesk/alexa/config"
	"github.com/supportdesk/alexa/conversation"
)

// Client issues single-attempt, synchronous completion requests with the
// configured timeout. Retry policy is deliberately disabled: a failed send is
// surfaced to the user, who may retry.
type Client struct {
	api         openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

// New builds a Client from the configuration snapshot.
func New(cfg *config.Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Complete replays the full message history to the completion endpoint and
// returns the assistant reply text. Failures are classified per the error
// taxonomy in errors.go.
func (c *Client) Complete(ctx context.Context, history []conversation.Message) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case conversation.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case conversation.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   openai.Int(c.maxTokens),
		Temperature: openai.Float(c.temperature),
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrMalformedResponse
	}
	return completion.Choices[0].Message.Content, nil
}
