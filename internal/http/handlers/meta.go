package handlers

import (
	"net/http"

	"github.com/spectramedia/bettybot/internal/bots"
	"github.com/spectramedia/bettybot/pkg/logging"
)

// MetaHandler serves widget branding metadata.
type MetaHandler struct {
	repo   bots.Repository
	logger *logging.Logger
}

// NewMetaHandler creates a new metadata handler.
func NewMetaHandler(repo bots.Repository, logger *logging.Logger) *MetaHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &MetaHandler{repo: repo, logger: logger}
}

// BotMetaResponse is the branding payload the widget renders from.
type BotMetaResponse struct {
	PublicID   string `json:"public_id,omitempty"`
	BotKey     string `json:"bot_key"`
	Pack       string `json:"pack"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	AvatarFile string `json:"avatar_file"`
	Greeting   string `json:"greeting"`
}

// BotMeta handles GET /api/bot_meta?bot_id=. Unknown ids fall back to the
// default demo bot so the widget always renders something.
func (h *MetaHandler) BotMeta(w http.ResponseWriter, r *http.Request) {
	botID := r.URL.Query().Get("bot_id")

	bot, ok := bots.Demo(botID)
	if !ok {
		bot, _ = bots.Demo(bots.DefaultBotKey)
	}

	greeting := bot.Greeting
	if greeting == "" {
		greeting = bots.DemoGreeting(bot.BotKey)
	}

	writeJSON(w, http.StatusOK, BotMetaResponse{
		BotKey:     bot.BotKey,
		Pack:       bot.Pack,
		Name:       bot.Name,
		Color:      bot.Color,
		AvatarFile: bot.AvatarFile,
		Greeting:   greeting,
	})
}

// EmbedMeta handles GET /api/embed_meta?public_id=. Embeds reference a
// purchased bot, so an unknown id is a hard 404 rather than a demo fallback.
func (h *MetaHandler) EmbedMeta(w http.ResponseWriter, r *http.Request) {
	publicID := r.URL.Query().Get("public_id")
	if publicID == "" {
		writeError(w, http.StatusBadRequest, "missing_public_id")
		return
	}

	bot, err := bots.Resolve(r.Context(), h.repo, publicID)
	if err != nil {
		h.logger.Error("handlers: embed meta lookup failed", "error", err, "public_id", publicID)
		writeError(w, http.StatusInternalServerError, "lookup_failed")
		return
	}
	if bot == nil {
		writeError(w, http.StatusNotFound, "bot_not_found")
		return
	}

	greeting := bot.Greeting
	if greeting == "" {
		greeting = bots.DemoGreeting(bot.BotKey)
	}

	writeJSON(w, http.StatusOK, BotMetaResponse{
		PublicID:   bot.PublicID,
		BotKey:     bot.BotKey,
		Pack:       bot.Pack,
		Name:       bot.Name,
		Color:      bot.Color,
		AvatarFile: bot.AvatarFile,
		Greeting:   greeting,
	})
}
