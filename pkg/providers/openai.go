package providers

import (
	"context"
	"log"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/boristopalov/rollout/pkg/conversation"
)

type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float64
}

// OpenAi creates a chat-completions client. Model id and temperature are
// fixed at construction; base URL and API key fall back to the environment.
func OpenAi(ctx context.Context, opts ...ProviderOption) *OpenAIClient {
	params := &ProviderParams{
		Model:       "gpt-4o-mini",
		Temperature: 1.0,
	}

	// Apply all options
	for _, opt := range opts {
		opt(params)
	}

	// Set defaults and environment fallbacks
	if params.BaseURL == "" {
		params.BaseURL = os.Getenv("OPENAI_API_BASE_URL")
		if params.BaseURL == "" {
			params.BaseURL = "https://api.openai.com/v1/" // Default OpenAI API endpoint
		}
	}
	if params.APIKey == "" {
		params.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	var client *openai.Client
	if params.APIKey != "" {
		client = openai.NewClient(
			option.WithAPIKey(params.APIKey),
			option.WithBaseURL(params.BaseURL),
		)
	} else {
		client = openai.NewClient(
			option.WithBaseURL(params.BaseURL),
		)
	}
	log.Println("Using Base URL", params.BaseURL)

	return &OpenAIClient{
		client:      client,
		model:       params.Model,
		temperature: params.Temperature,
	}
}

// Invoke sends the full dialogue history and returns the reply text.
func (c *OpenAIClient) Invoke(ctx context.Context, messages []conversation.Message) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case conversation.RoleSystem:
			params = append(params, openai.SystemMessage(msg.Content))
		case conversation.RoleAssistant:
			params = append(params, openai.AssistantMessage(msg.Content))
		default:
			params = append(params, openai.UserMessage(msg.Content))
		}
	}

	chatCompletion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    openai.F(params),
		Model:       openai.F(c.model),
		Temperature: openai.F(c.temperature),
	})
	if err != nil {
		return "", err
	}
	return chatCompletion.Choices[0].Message.Content, nil
}
