package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nurumindfulness/nuru/backend/internal/model/chat"
	"github.com/nurumindfulness/nuru/backend/internal/service/ai"
	chatservice "github.com/nurumindfulness/nuru/backend/internal/service/chat"
	"github.com/nurumindfulness/nuru/backend/pkg/utils"
)

const (
	maxBodyBytes = 64 << 10

	msgMethodNotAllowed = "Method not allowed"
	msgMissingMessage   = "Missing 'message' in body"
	msgUpstream         = "Upstream completion API error"
	msgServerError      = "Server error"
)

// Relay answers a single chat message.
type Relay interface {
	Reply(ctx context.Context, message string) (chat.Reply, error)
}

// Handler 聊天中继的HTTP处理器
type Handler struct {
	relay    Relay
	validate *validator.Validate
	logger   *slog.Logger
	ws       *WebSocketHandler
}

// New 创建聊天处理器
func New(relay Relay, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		relay:    relay,
		validate: validator.New(),
		logger:   logger,
		ws:       NewWebSocketHandler(relay, logger),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	// every method lands here so non-POST gets the JSON 405 body
	r.HandleFunc("/chat", h.handleChat)
	r.Get("/chat/ws", h.ws.ServeHTTP)
}

// handleChat 处理单条消息
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		utils.RespondError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var payload chat.Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Debug("rejecting chat body", "error", err)
		utils.RespondError(w, http.StatusBadRequest, msgMissingMessage)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, msgMissingMessage)
		return
	}

	reply, err := h.relay.Reply(r.Context(), payload.Message)
	if err != nil {
		status, body := h.classify(err)
		utils.RespondErrorDetail(w, status, body.Error, body.Detail)
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

// classify maps relay errors to the status and body both transports report.
func (h *Handler) classify(err error) (int, chat.ErrorBody) {
	return classifyError(h.logger, err)
}

func classifyError(logger *slog.Logger, err error) (int, chat.ErrorBody) {
	var upstream *ai.UpstreamError
	switch {
	case errors.Is(err, chatservice.ErrMessageRequired):
		return http.StatusBadRequest, chat.ErrorBody{Error: msgMissingMessage}
	case errors.Is(err, ai.ErrNotConfigured):
		logger.Error("completion provider not configured", "error", err)
		return http.StatusInternalServerError, chat.ErrorBody{Error: err.Error()}
	case errors.As(err, &upstream):
		logger.Error("completion request failed",
			"provider", upstream.Provider, "status", upstream.Status, "error", err)
		return http.StatusBadGateway, chat.ErrorBody{Error: msgUpstream, Detail: upstream.Detail}
	default:
		logger.Error("chat relay failed", "error", err)
		return http.StatusInternalServerError, chat.ErrorBody{Error: msgServerError}
	}
}
