package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Completer turns an assembled payload into generated reply text.
type Completer interface {
	Name() string
	Complete(ctx context.Context, payload Payload) (string, error)
}

var errEmptyCompletion = errors.New("provider returned an empty completion")

// ChatModelCompleter runs an eino chat model behind a compiled chain.
type ChatModelCompleter struct {
	name  string
	chain compose.Runnable[[]*schema.Message, *schema.Message]
}

// NewChatModelCompleter compiles a single-node chain around chatModel.
func NewChatModelCompleter(ctx context.Context, name string, chatModel model.ChatModel) (*ChatModelCompleter, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is nil")
	}

	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ChatModelCompleter{name: name, chain: runnable}, nil
}

// Name identifies the provider in logs and errors.
func (c *ChatModelCompleter) Name() string {
	return c.name
}

// Complete invokes the chain with the persona sampling as per-call model options.
func (c *ChatModelCompleter) Complete(ctx context.Context, payload Payload) (string, error) {
	response, err := c.chain.Invoke(ctx, payload.Messages, compose.WithChatModelOption(
		model.WithTemperature(float32(payload.Sampling.Temperature)),
		model.WithTopP(float32(payload.Sampling.TopP)),
		model.WithMaxTokens(payload.MaxTokens),
	))
	if err != nil {
		return "", err
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", errEmptyCompletion
	}
	return response.Content, nil
}
