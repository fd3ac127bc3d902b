package providers

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/boristopalov/rollout/pkg/conversation"
)

type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

// Gemini creates a Gemini chat client. Model id and temperature are fixed
// at construction; the API key falls back to GEMINI_API_KEY.
func Gemini(ctx context.Context, opts ...ProviderOption) (*GeminiClient, error) {
	params := &ProviderParams{
		Model:       "gemini-2.0-flash-exp",
		Temperature: 1.0,
	}
	for _, opt := range opts {
		opt(params)
	}

	apiKey := params.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Error retrieving GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGoogleAI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client:      client,
		model:       params.Model,
		temperature: float32(params.Temperature),
	}, nil
}

// Invoke sends the full dialogue history and returns the reply text.
// System messages become the system instruction; assistant messages map to
// the "model" role.
func (c *GeminiClient) Invoke(ctx context.Context, messages []conversation.Message) (string, error) {
	var systemParts []*genai.Part
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case conversation.RoleSystem:
			systemParts = append(systemParts, &genai.Part{Text: msg.Content})
		case conversation.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float64(c.temperature)),
	}
	if len(systemParts) > 0 {
		config.SystemInstruction = &genai.Content{Parts: systemParts}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", err
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
