package ai

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/samber/lo"
)

const (
	DefaultMistralModel   = "open-mistral-7b"
	DefaultMistralBaseURL = "https://api.mistral.ai/v1"
)

// MistralCompleter talks to Mistral through its OpenAI-compatible chat completions API.
type MistralCompleter struct {
	client openai.Client
	model  string
}

// NewMistralCompleter builds a client for baseURL. The SDK's own retries are disabled:
// a failed call surfaces to the caller immediately.
func NewMistralCompleter(apiKey, baseURL, modelName string, opts ...option.RequestOption) *MistralCompleter {
	if baseURL == "" {
		baseURL = DefaultMistralBaseURL
	}
	if modelName == "" {
		modelName = DefaultMistralModel
	}

	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}, opts...)

	return &MistralCompleter{
		client: openai.NewClient(clientOpts...),
		model:  modelName,
	}
}

// Name identifies the provider in logs and errors.
func (c *MistralCompleter) Name() string {
	return "mistral"
}

// Complete sends the payload as one chat completion request.
func (c *MistralCompleter) Complete(ctx context.Context, payload Payload) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    lo.Map(payload.Messages, toOpenAIMessage),
		Temperature: openai.Float(payload.Sampling.Temperature),
		TopP:        openai.Float(payload.Sampling.TopP),
		MaxTokens:   openai.Int(int64(payload.MaxTokens)),
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("mistral returned no completion choices")
	}

	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", errEmptyCompletion
	}
	return content, nil
}

func toOpenAIMessage(msg *schema.Message, _ int) openai.ChatCompletionMessageParamUnion {
	switch msg.Role {
	case schema.System:
		return openai.SystemMessage(msg.Content)
	case schema.Assistant:
		return openai.AssistantMessage(msg.Content)
	default:
		return openai.UserMessage(msg.Content)
	}
}
