package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/spectramedia/bettybot/internal/conversation"
	"github.com/spectramedia/bettybot/pkg/logging"
)

// ChatEngine is the conversation surface the chat endpoints depend on.
type ChatEngine interface {
	Reply(ctx context.Context, req conversation.ReplyRequest) conversation.ReplyResult
	Reset(ctx context.Context, key string) error
}

// ChatHandler serves the widget-facing chat endpoints.
type ChatHandler struct {
	engine ChatEngine
	logger *logging.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(engine ChatEngine, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{engine: engine, logger: logger}
}

// ChatRequest is one widget message. bot_id and public_id are accepted
// interchangeably; embeds send whichever the snippet was generated with.
type ChatRequest struct {
	Message    string `json:"message"`
	BotID      string `json:"bot_id"`
	PublicID   string `json:"public_id"`
	ConvID     string `json:"conv_id"`
	BuyerEmail string `json:"buyer_email"`
}

// ChatResponse is the widget-facing reply.
type ChatResponse struct {
	Response string `json:"response"`
	Stage    string `json:"stage,omitempty"`
}

// Chat handles POST /api/bettybot.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	publicID := req.PublicID
	if publicID == "" {
		publicID = req.BotID
	}

	result := h.engine.Reply(r.Context(), conversation.ReplyRequest{
		Message:    req.Message,
		PublicID:   publicID,
		ConvID:     req.ConvID,
		BuyerEmail: req.BuyerEmail,
	})

	writeJSON(w, http.StatusOK, ChatResponse{Response: result.Response, Stage: result.Stage})
}

// ResetRequest names the conversation to drop.
type ResetRequest struct {
	Key    string `json:"key"`
	ConvID string `json:"conv_id"`
}

// Reset handles POST /api/reset.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	key := req.Key
	if key == "" {
		key = req.ConvID
	}
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing_key")
		return
	}

	if err := h.engine.Reset(r.Context(), key); err != nil {
		h.logger.Error("handlers: conversation reset failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "reset_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Ping handles GET /api/ping.
func (h *ChatHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthCheck handles GET /health.
func (h *ChatHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "bettybot"})
}
