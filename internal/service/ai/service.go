package ai

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lucaprotelli/bastian-project/backend/internal/model/chat"
	"github.com/lucaprotelli/bastian-project/backend/internal/model/persona"
)

// Memory is the session history the orchestrator reads and appends to.
type Memory interface {
	Lock(sessionID string) func()
	History(sessionID string) []chat.Turn
	Append(sessionID string, role chat.Role, content string) chat.Turn
}

// Request is one inbound chat message.
type Request struct {
	Message   string
	SessionID string
	PersonaID string
}

// Reply is the generated answer plus the persona that actually produced it.
type Reply struct {
	Response  string
	PersonaID string
	Fallback  bool
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Personas  persona.Store
	Memory    Memory
	Completer Completer
	Assembler Assembler
	Logger    *log.Logger
	// UnavailableReason is reported in ConfigurationError when Completer is nil.
	UnavailableReason string
}

// Service handles chat requests: persona lookup, prompt assembly, completion, memory update.
type Service struct {
	personas          persona.Store
	memory            Memory
	completer         Completer
	assembler         Assembler
	logger            *log.Logger
	unavailableReason string
}

// NewService creates the orchestrator. A nil Completer is allowed; every request then
// fails with ConfigurationError.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	reason := opts.UnavailableReason
	if reason == "" {
		reason = "no completion provider"
	}
	assembler := opts.Assembler
	if assembler.Window <= 0 || assembler.MaxTokens <= 0 {
		assembler = NewAssembler(assembler.Window, assembler.MaxTokens)
	}

	return &Service{
		personas:          opts.Personas,
		memory:            opts.Memory,
		completer:         opts.Completer,
		assembler:         assembler,
		logger:            logger,
		unavailableReason: reason,
	}
}

// Ready reports whether a completion provider is configured.
func (s *Service) Ready() bool {
	return s.completer != nil
}

// Reply generates the persona's answer to req.Message. Requests on the same session are
// serialized; on failure the session history is left untouched.
func (s *Service) Reply(ctx context.Context, req Request) (Reply, error) {
	if s.completer == nil {
		return Reply{}, &ConfigurationError{Reason: s.unavailableReason}
	}

	p, fallback := s.personas.Resolve(req.PersonaID)
	if fallback {
		s.logger.Debug("unknown persona, using default", "requested", req.PersonaID, "persona", p.ID)
	}

	unlock := s.memory.Lock(req.SessionID)
	defer unlock()

	history := s.memory.History(req.SessionID)
	payload := s.assembler.Assemble(p, history, req.Message)

	content, err := s.completer.Complete(ctx, payload)
	if err != nil {
		s.logger.Error("completion failed", "session", req.SessionID, "persona", p.ID, "provider", s.completer.Name(), "err", err)
		return Reply{}, &UpstreamError{Provider: s.completer.Name(), Err: err}
	}

	s.memory.Append(req.SessionID, chat.RoleUser, req.Message)
	s.memory.Append(req.SessionID, chat.RoleAssistant, content)

	s.logger.Info("generated reply",
		"session", req.SessionID,
		"persona", p.ID,
		"messages", len(payload.Messages),
		"prior_turns", len(history),
		"length", len(content),
	)

	return Reply{Response: content, PersonaID: p.ID, Fallback: fallback}, nil
}
