package ai

import (
	"github.com/cloudwego/eino/schema"

	"github.com/lucaprotelli/bastian-project/backend/internal/model/chat"
	"github.com/lucaprotelli/bastian-project/backend/internal/model/persona"
)

const (
	// DefaultHistoryWindow is how many trailing history turns are replayed to the model.
	DefaultHistoryWindow = 10
	// DefaultMaxTokens caps the reply length for every persona.
	DefaultMaxTokens = 300
)

// Payload is the ordered message sequence and sampling settings for one completion call.
type Payload struct {
	Messages  []*schema.Message
	Sampling  persona.Sampling
	MaxTokens int
}

// Assembler merges persona configuration, examples and history into a Payload.
type Assembler struct {
	Window    int
	MaxTokens int
}

// NewAssembler returns an Assembler, replacing non-positive values with the defaults.
func NewAssembler(window, maxTokens int) Assembler {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return Assembler{Window: window, MaxTokens: maxTokens}
}

// Assemble builds system prompt, few-shot examples, the trailing history window and the
// new user message, in that order. It does not modify its arguments.
func (a Assembler) Assemble(p persona.Persona, history []chat.Turn, message string) Payload {
	window := trailingWindow(history, a.Window)

	messages := make([]*schema.Message, 0, 2+len(p.Examples)+len(window))
	messages = append(messages, schema.SystemMessage(p.SystemPrompt))
	for _, turn := range p.Examples {
		messages = append(messages, toSchemaMessage(turn))
	}
	for _, turn := range window {
		messages = append(messages, toSchemaMessage(turn))
	}
	messages = append(messages, schema.UserMessage(message))

	return Payload{
		Messages:  messages,
		Sampling:  p.Sampling,
		MaxTokens: a.MaxTokens,
	}
}

func trailingWindow(history []chat.Turn, size int) []chat.Turn {
	if size < 0 {
		size = 0
	}
	if len(history) <= size {
		return history
	}
	return history[len(history)-size:]
}

func toSchemaMessage(turn chat.Turn) *schema.Message {
	switch turn.Role {
	case chat.RoleAssistant:
		return schema.AssistantMessage(turn.Content, nil)
	case chat.RoleSystem:
		return schema.SystemMessage(turn.Content)
	default:
		return schema.UserMessage(turn.Content)
	}
}
