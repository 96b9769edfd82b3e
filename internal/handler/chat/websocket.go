package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nurumindfulness/nuru/backend/internal/model/chat"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// errorFrame is sent instead of a reply; Status is what POST /api/chat would have used.
type errorFrame struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Status int    `json:"status"`
}

// WebSocketHandler carries the relay contract one frame at a time.
type WebSocketHandler struct {
	relay    Relay
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(relay Relay, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		relay:  relay,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// wsConn serializes writes between the reply path and the ping loop.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// ServeHTTP upgrades the request and answers frames until the peer leaves.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := h.logger.With("conn", connID)
	logger.Info("websocket connected", "remote", r.RemoteAddr)
	defer logger.Info("websocket closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	out := &wsConn{conn: conn}
	go h.pingLoop(ctx, out)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		if msgType != websocket.TextMessage {
			if err := out.writeJSON(errorFrame{Error: msgMissingMessage, Status: http.StatusBadRequest}); err != nil {
				return
			}
			continue
		}

		if err := out.writeJSON(h.answer(ctx, logger, data)); err != nil {
			logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

// answer turns one inbound frame into exactly one outbound frame.
func (h *WebSocketHandler) answer(ctx context.Context, logger *slog.Logger, data []byte) any {
	var payload chat.Request
	if err := json.Unmarshal(data, &payload); err != nil || strings.TrimSpace(payload.Message) == "" {
		return errorFrame{Error: msgMissingMessage, Status: http.StatusBadRequest}
	}

	reply, err := h.relay.Reply(ctx, payload.Message)
	if err != nil {
		status, body := classifyError(logger, err)
		return errorFrame{Error: body.Error, Detail: body.Detail, Status: status}
	}
	return reply
}

// pingLoop 定期发送ping消息
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}
