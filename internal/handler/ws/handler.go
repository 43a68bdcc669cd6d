package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatHandler "github.com/lucaprotelli/bastian-project/backend/internal/handler/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 25 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler serves the chat exchange over a websocket: one reply frame per request frame.
type Handler struct {
	replier  chatHandler.Replier
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(replier chatHandler.Replier, logger *log.Logger) *Handler {
	return &Handler{
		replier: replier,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type outgoingMessage struct {
	Type      string                `json:"type"`
	SessionID string                `json:"sessionId,omitempty"`
	Data      *chatHandler.Response `json:"data,omitempty"`
	Detail    string                `json:"detail,omitempty"`
	Timestamp int64                 `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	h.logger.Debug("websocket connected", "session", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, conn)

	for {
		var payload chatHandler.Request
		if err := conn.ReadJSON(&payload); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "session", sessionID, "err", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if payload.SessionID == "" && payload.LegacySessionID == "" {
			payload.SessionID = sessionID
		} else if payload.SessionID != sessionID && payload.LegacySessionID != sessionID {
			h.write(conn, outgoingMessage{Type: "error", SessionID: sessionID, Detail: "session mismatch"})
			continue
		}

		h.write(conn, h.reply(ctx, sessionID, payload))
	}
}

func (h *Handler) reply(ctx context.Context, sessionID string, payload chatHandler.Request) outgoingMessage {
	req, err := payload.ToAI()
	if err != nil {
		return outgoingMessage{Type: "error", SessionID: sessionID, Detail: err.Error()}
	}

	reply, err := h.replier.Reply(ctx, req)
	if err != nil {
		h.logger.Error("websocket chat failed", "session", sessionID, "err", err)
		return outgoingMessage{Type: "error", SessionID: sessionID, Detail: err.Error()}
	}

	body := chatHandler.NewResponse(reply)
	return outgoingMessage{Type: "reply", SessionID: sessionID, Data: &body}
}

func (h *Handler) write(conn *websocket.Conn, msg outgoingMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn("websocket write failed", "session", msg.SessionID, "err", err)
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
