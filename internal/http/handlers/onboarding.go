package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spectramedia/bettybot/internal/bots"
	"github.com/spectramedia/bettybot/internal/profile"
	"github.com/spectramedia/bettybot/pkg/logging"
)

// OnboardingHandler creates bot records from the signup form payload.
type OnboardingHandler struct {
	repo          bots.Repository
	publicBaseURL string
	logger        *logging.Logger
}

// NewOnboardingHandler creates a new onboarding handler.
func NewOnboardingHandler(repo bots.Repository, publicBaseURL string, logger *logging.Logger) *OnboardingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &OnboardingHandler{
		repo:          repo,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// CreateBotRequest is the signup form payload. Contact is the free-form
// business blob the buyer pastes in; it is parsed once here and stored.
type CreateBotRequest struct {
	Email      string `json:"email"`
	OwnerName  string `json:"owner_name"`
	Pack       string `json:"pack"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	AvatarFile string `json:"avatar_file"`
	Greeting   string `json:"greeting"`
	Contact    string `json:"contact"`
}

// CreateBotResponse returns the identifiers the buyer needs to embed the bot.
type CreateBotResponse struct {
	PublicID string `json:"public_id"`
	BotKey   string `json:"bot_key"`
	EmbedURL string `json:"embed_url"`
}

// CreateBot handles POST /api/bots.
func (h *OnboardingHandler) CreateBot(w http.ResponseWriter, r *http.Request) {
	var req CreateBotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing_email")
		return
	}

	botKey := bots.BotKeyForPack(req.Pack)
	base, _ := bots.Demo(botKey)
	publicID := bots.PublicID(email, botKey)

	bot := bots.Bot{
		PublicID:   publicID,
		BotKey:     botKey,
		Pack:       base.Pack,
		Name:       strings.TrimSpace(req.Name),
		Color:      strings.TrimSpace(req.Color),
		AvatarFile: strings.TrimSpace(req.AvatarFile),
		Greeting:   strings.TrimSpace(req.Greeting),
		BuyerEmail: email,
		OwnerName:  strings.TrimSpace(req.OwnerName),
		Profile:    profile.Parse(req.Contact),
	}
	if bot.Name == "" {
		bot.Name = base.Name
	}
	if bot.Color == "" {
		bot.Color = base.Color
	}
	if bot.AvatarFile == "" {
		bot.AvatarFile = base.AvatarFile
	}
	if bot.Greeting == "" {
		bot.Greeting = bots.DefaultGreeting()
	}

	if err := h.repo.Upsert(r.Context(), &bot); err != nil {
		h.logger.Error("handlers: bot upsert failed", "error", err, "public_id", publicID)
		writeError(w, http.StatusInternalServerError, "store_failed")
		return
	}

	h.logger.Info("bot created", "public_id", publicID, "pack", bot.Pack, "buyer_email", email)

	writeJSON(w, http.StatusCreated, CreateBotResponse{
		PublicID: publicID,
		BotKey:   botKey,
		EmbedURL: fmt.Sprintf("%s/embed/%s", h.publicBaseURL, publicID),
	})
}
