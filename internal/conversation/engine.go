package conversation

import (
	"context"
	"strings"

	"github.com/spectramedia/bettybot/internal/bots"
	"github.com/spectramedia/bettybot/internal/chat"
	"github.com/spectramedia/bettybot/internal/leads"
	"github.com/spectramedia/bettybot/internal/llm"
	"github.com/spectramedia/bettybot/internal/observability/metrics"
	"github.com/spectramedia/bettybot/internal/prompt"
	"github.com/spectramedia/bettybot/pkg/logging"
)

// The sales demo bot converses without a qualification instruction.
const demoSystemPrompt = "..."

// LeadNotifier dispatches a qualified lead to the bot owner.
type LeadNotifier interface {
	SendLead(ctx context.Context, to, botName string, lead leads.Lead)
}

// ReplyRequest is one inbound visitor message.
type ReplyRequest struct {
	Message    string
	PublicID   string
	ConvID     string
	BuyerEmail string
}

// ReplyResult is what the visitor-facing API returns.
type ReplyResult struct {
	Response string
	Stage    string // "collecting", "ready", or "" when no lead applies
}

// Config wires an Engine.
type Config struct {
	Store            Store
	Bots             bots.Repository
	Prompts          *prompt.Builder
	Generator        llm.Generator
	Notifier         LeadNotifier
	DefaultLeadEmail string
	Metrics          *metrics.ChatMetrics
	Logger           *logging.Logger
}

// Engine runs the lead-qualification pipeline for one message: resolve the
// bot, rebuild context, generate (model first, rules second), extract the
// lead, and dispatch it once complete. Every internal failure degrades to a
// coherent next question; nothing in here returns an error to the visitor.
type Engine struct {
	store            Store
	bots             bots.Repository
	prompts          *prompt.Builder
	generator        llm.Generator
	notifier         LeadNotifier
	defaultLeadEmail string
	metrics          *metrics.ChatMetrics
	logger           *logging.Logger
}

// NewEngine creates a conversation engine.
func NewEngine(cfg Config) *Engine {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Prompts == nil {
		cfg.Prompts = prompt.NewBuilder("data/packs", cfg.Logger)
	}
	return &Engine{
		store:            cfg.Store,
		bots:             cfg.Bots,
		prompts:          cfg.Prompts,
		generator:        cfg.Generator,
		notifier:         cfg.Notifier,
		defaultLeadEmail: cfg.DefaultLeadEmail,
		metrics:          cfg.Metrics,
		logger:           cfg.Logger,
	}
}

// Reply handles one visitor message end to end.
func (e *Engine) Reply(ctx context.Context, req ReplyRequest) ReplyResult {
	userInput := strings.TrimSpace(req.Message)
	if userInput == "" {
		return ReplyResult{Response: emptyNudge}
	}

	bot := e.resolveBot(ctx, req.PublicID)
	convKey := conversationKeyFor(req, bot)

	stored, err := e.store.History(ctx, convKey)
	if err != nil {
		e.logger.Error("conversation: failed to load history, starting fresh", "error", err, "key", convKey)
		stored = nil
	}
	history := Window(stored, HistoryWindow)

	systemPrompt := demoSystemPrompt
	if req.PublicID != bots.DemoBotKey {
		systemPrompt = e.prompts.SystemPrompt(bot.Pack, bot.Profile, bot.Greeting)
	}

	generator := "llm"
	fullText := ""
	if e.generator != nil {
		fullText = e.generator.Generate(ctx, systemPrompt, history, userInput)
	}
	if fullText == "" {
		generator = "fallback"
		fullText = NextQuestion(bot.Pack, append(append([]chat.Turn{}, history...), chat.User(userInput)))
	}

	display, lead := leads.ExtractTag(fullText)
	display = leads.StripTag(display)

	if err := e.store.Append(ctx, convKey, chat.User(userInput), chat.Assistant(display)); err != nil {
		e.logger.Error("conversation: failed to persist turns", "error", err, "key", convKey)
	}

	// Backstop: a missing or unparsable tag never loses a lead the visitor
	// already spelled out.
	if lead == nil {
		backstop := leads.FromHistory(append(append([]chat.Turn{}, history...), chat.User(userInput)))
		lead = &backstop
	}

	if lead.Complete() {
		e.dispatchLead(ctx, req, bot, *lead)
	}

	e.metrics.ObserveReply(generator, lead.Stage)
	return ReplyResult{Response: display, Stage: lead.Stage}
}

// Reset drops the conversation behind a widget-supplied key.
func (e *Engine) Reset(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return e.store.Reset(ctx, key)
}

// resolveBot maps any public identifier to a bot, defaulting to the demo
// avocat bot so the conversation never fails on an unknown id.
func (e *Engine) resolveBot(ctx context.Context, publicID string) *bots.Bot {
	bot, err := bots.Resolve(ctx, e.bots, publicID)
	if err != nil {
		e.logger.Error("conversation: bot lookup failed, using default", "error", err, "public_id", publicID)
	}
	if bot == nil {
		base, _ := bots.Demo(bots.DefaultBotKey)
		bot = &base
	}
	return bot
}

// conversationKeyFor picks the session key: an explicit conv_id wins,
// otherwise the bot identity scopes the conversation.
func conversationKeyFor(req ReplyRequest, bot *bots.Bot) string {
	if req.ConvID != "" {
		return req.ConvID
	}
	id := req.PublicID
	if id == "" {
		id = bot.BotKey
	}
	return "conv_" + id
}

// dispatchLead resolves the owner address and emails the completed lead.
// The emailed record is always stamped ready.
func (e *Engine) dispatchLead(ctx context.Context, req ReplyRequest, bot *bots.Bot, lead leads.Lead) {
	to := strings.TrimSpace(req.BuyerEmail)
	if to == "" {
		to = strings.TrimSpace(bot.BuyerEmail)
	}
	if to == "" {
		to = e.defaultLeadEmail
	}
	if to == "" {
		e.logger.Warn("conversation: no owner email resolvable, lead not dispatched", "public_id", req.PublicID)
		return
	}
	if e.notifier == nil {
		return
	}

	lead.Stage = leads.StageReady
	e.notifier.SendLead(ctx, to, bot.Name, lead)
}
