package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	model "github.com/lucaprotelli/bastian-project/backend/internal/model/chat"
	"github.com/lucaprotelli/bastian-project/backend/internal/service/ai"
	chatService "github.com/lucaprotelli/bastian-project/backend/internal/service/chat"
	"github.com/lucaprotelli/bastian-project/backend/pkg/utils"
)

// Replier produces the persona reply for one request.
type Replier interface {
	Reply(ctx context.Context, req ai.Request) (ai.Reply, error)
}

// Transcripts exports retained session history.
type Transcripts interface {
	Transcript(sessionID string) (model.Transcript, bool)
}

// Request is the inbound chat body. session_id is accepted for older clients.
type Request struct {
	Message         string `json:"message"`
	SessionID       string `json:"sessionId"`
	LegacySessionID string `json:"session_id,omitempty"`
	Persona         string `json:"persona"`
}

// Response is the successful chat body.
type Response struct {
	Response string `json:"response"`
	Persona  string `json:"persona"`
	Fallback bool   `json:"fallback"`
}

// ToAI validates the body and converts it to an orchestrator request.
func (r Request) ToAI() (ai.Request, error) {
	sessionID := strings.TrimSpace(r.SessionID)
	if sessionID == "" {
		sessionID = strings.TrimSpace(r.LegacySessionID)
	}
	if strings.TrimSpace(r.Message) == "" {
		return ai.Request{}, errors.New("message is required")
	}
	if sessionID == "" {
		return ai.Request{}, errors.New("sessionId is required")
	}
	return ai.Request{
		Message:   r.Message,
		SessionID: sessionID,
		PersonaID: strings.TrimSpace(r.Persona),
	}, nil
}

// NewResponse converts an orchestrator reply to the wire body.
func NewResponse(reply ai.Reply) Response {
	return Response{Response: reply.Response, Persona: reply.PersonaID, Fallback: reply.Fallback}
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	replier     Replier
	transcripts Transcripts
	logger      *log.Logger
}

// New 创建聊天处理器
func New(replier Replier, transcripts Transcripts, logger *log.Logger) *Handler {
	return &Handler{
		replier:     replier,
		transcripts: transcripts,
		logger:      logger,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.HandleChat)
	r.Post("/session", h.handleCreateSession)
	r.Get("/sessions/{sessionID}/turns", h.handleTranscript)
}

// HandleChat relays one message to the persona and returns its reply.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var payload Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := payload.ToAI()
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.replier.Reply(r.Context(), req)
	if err != nil {
		h.logFailure(req, err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, NewResponse(reply))
}

func (h *Handler) logFailure(req ai.Request, err error) {
	var cfgErr *ai.ConfigurationError
	if errors.As(err, &cfgErr) {
		h.logger.Warn("chat rejected, provider not configured", "session", req.SessionID, "err", err)
		return
	}
	h.logger.Error("chat failed", "session", req.SessionID, "persona", req.PersonaID, "err", err)
}

// handleCreateSession 生成新的会话ID，历史记录在首次对话时创建
func (h *Handler) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusCreated, map[string]string{"sessionId": chatService.NewSessionID()})
}

// handleTranscript 导出会话的完整历史
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	transcript, ok := h.transcripts.Transcript(sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcript)
}
