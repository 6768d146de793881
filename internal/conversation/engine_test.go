package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectramedia/bettybot/internal/bots"
	"github.com/spectramedia/bettybot/internal/chat"
	"github.com/spectramedia/bettybot/internal/leads"
)

type fakeGenerator struct {
	reply   string
	calls   int
	system  string
	history []chat.Turn
	input   string
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt string, history []chat.Turn, userInput string) string {
	f.calls++
	f.system = systemPrompt
	f.history = history
	f.input = userInput
	return f.reply
}

type fakeNotifier struct {
	calls   int
	to      string
	botName string
	lead    leads.Lead
}

func (f *fakeNotifier) SendLead(_ context.Context, to, botName string, lead leads.Lead) {
	f.calls++
	f.to = to
	f.botName = botName
	f.lead = lead
}

func newTestEngine(t *testing.T, gen *fakeGenerator, notifier *fakeNotifier) *Engine {
	t.Helper()
	cfg := Config{
		Store:            NewMemoryStore(),
		Bots:             bots.NewMemoryRepository(),
		DefaultLeadEmail: "fallback@spectramedia.fr",
	}
	if gen != nil {
		cfg.Generator = gen
	}
	if notifier != nil {
		cfg.Notifier = notifier
	}
	return NewEngine(cfg)
}

func TestReplyEmptyMessageNudges(t *testing.T) {
	gen := &fakeGenerator{reply: "should not be called"}
	engine := newTestEngine(t, gen, nil)

	res := engine.Reply(context.Background(), ReplyRequest{Message: "   "})

	assert.Equal(t, "Dites-moi ce dont vous avez besoin 🙂", res.Response)
	assert.Empty(t, res.Stage)
	assert.Zero(t, gen.calls)
}

func TestReplyStripsTagFromModelOutput(t *testing.T) {
	gen := &fakeGenerator{
		reply: "Quel est votre nom et prénom complets ?\n" +
			`<LEAD_JSON>{"reason":"divorce","name":"","email":"","phone":"0601020304","availability":"","stage":"collecting"}</LEAD_JSON>`,
	}
	engine := newTestEngine(t, gen, nil)

	res := engine.Reply(context.Background(), ReplyRequest{Message: "Mon numéro est le 0601020304", PublicID: "avocat-001"})

	assert.Equal(t, "Quel est votre nom et prénom complets ?", res.Response)
	assert.NotContains(t, res.Response, "LEAD_JSON")
	assert.Equal(t, leads.StageCollecting, res.Stage)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "Mon numéro est le 0601020304", gen.input)
}

func TestReplyFallsBackWhenModelSilent(t *testing.T) {
	gen := &fakeGenerator{reply: ""}
	engine := newTestEngine(t, gen, nil)

	res := engine.Reply(context.Background(), ReplyRequest{Message: "Bonjour", PublicID: "immo-002"})

	assert.Equal(t, 1, gen.calls)
	assert.True(t, strings.HasPrefix(res.Response, askPhone), "got %q", res.Response)
	assert.Equal(t, leads.StageCollecting, res.Stage)
}

func TestReplyNoGeneratorUsesFallback(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	res := engine.Reply(context.Background(), ReplyRequest{Message: "Bonjour"})

	assert.True(t, strings.HasPrefix(res.Response, askPhone), "got %q", res.Response)
}

func TestReplyAppendsDisplayTextOnly(t *testing.T) {
	gen := &fakeGenerator{
		reply: "Quelle est votre adresse e-mail ?\n" +
			`<LEAD_JSON>{"reason":"","name":"","email":"","phone":"","availability":"","stage":"collecting"}</LEAD_JSON>`,
	}
	store := NewMemoryStore()
	engine := NewEngine(Config{Store: store, Generator: gen})

	engine.Reply(context.Background(), ReplyRequest{Message: "Bonjour", ConvID: "conv-9"})

	history, err := store.History(context.Background(), "conv-9")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, chat.RoleUser, history[0].Role)
	assert.Equal(t, "Bonjour", history[0].Content)
	assert.Equal(t, chat.RoleAssistant, history[1].Role)
	assert.Equal(t, "Quelle est votre adresse e-mail ?", history[1].Content)
	assert.NotContains(t, history[1].Content, "LEAD_JSON")
}

func TestReplyHeuristicBackstopWhenTagMissing(t *testing.T) {
	gen := &fakeGenerator{reply: "Très bien, je note tout cela."}
	notifier := &fakeNotifier{}
	engine := newTestEngine(t, gen, notifier)

	res := engine.Reply(context.Background(), ReplyRequest{
		Message:  "Je m'appelle Jean Dupont, 0601020304, jean@ex.com",
		PublicID: "avocat-001",
	})

	assert.Equal(t, leads.StageReady, res.Stage)
	require.Equal(t, 1, notifier.calls)
	assert.Equal(t, "Jean Dupont", notifier.lead.Name)
	assert.Equal(t, "jean@ex.com", notifier.lead.Email)
}

func TestReplyDispatchesCompleteLead(t *testing.T) {
	gen := &fakeGenerator{
		reply: "Parfait, je transmets vos coordonnées.\n" +
			`<LEAD_JSON>{"reason":"achat","name":"Jean Dupont","email":"jean@ex.com","phone":"0601020304","availability":"mardi","stage":"ready"}</LEAD_JSON>`,
	}
	notifier := &fakeNotifier{}
	engine := newTestEngine(t, gen, notifier)

	res := engine.Reply(context.Background(), ReplyRequest{Message: "jean@ex.com", PublicID: "immo-002"})

	assert.Equal(t, leads.StageReady, res.Stage)
	require.Equal(t, 1, notifier.calls)
	assert.Equal(t, "fallback@spectramedia.fr", notifier.to)
	assert.Equal(t, "Betty Bot (Immobilier)", notifier.botName)
	assert.Equal(t, leads.StageReady, notifier.lead.Stage)
}

func TestReplyIncompleteLeadNotDispatched(t *testing.T) {
	gen := &fakeGenerator{
		reply: "Quel est votre nom et prénom complets ?\n" +
			`<LEAD_JSON>{"reason":"","name":"","email":"","phone":"0601020304","availability":"","stage":"ready"}</LEAD_JSON>`,
	}
	notifier := &fakeNotifier{}
	engine := newTestEngine(t, gen, notifier)

	res := engine.Reply(context.Background(), ReplyRequest{Message: "0601020304"})

	// A tag claiming ready without the three fields is demoted, not emailed.
	assert.Equal(t, leads.StageCollecting, res.Stage)
	assert.Zero(t, notifier.calls)
}

func TestReplyBuyerEmailResolutionOrder(t *testing.T) {
	completeReply := "Parfait.\n" +
		`<LEAD_JSON>{"reason":"","name":"Jean Dupont","email":"jean@ex.com","phone":"0601020304","availability":"","stage":"ready"}</LEAD_JSON>`

	t.Run("request email wins", func(t *testing.T) {
		notifier := &fakeNotifier{}
		engine := newTestEngine(t, &fakeGenerator{reply: completeReply}, notifier)

		engine.Reply(context.Background(), ReplyRequest{Message: "ok", BuyerEmail: "buyer@ex.com"})

		require.Equal(t, 1, notifier.calls)
		assert.Equal(t, "buyer@ex.com", notifier.to)
	})

	t.Run("stored bot email next", func(t *testing.T) {
		repo := bots.NewMemoryRepository()
		require.NoError(t, repo.Upsert(context.Background(), &bots.Bot{
			PublicID:   "avocat-001-deadbeef",
			BotKey:     "avocat-001",
			Pack:       "avocat",
			Name:       "Cabinet Werner",
			BuyerEmail: "owner@werner.fr",
		}))
		notifier := &fakeNotifier{}
		engine := NewEngine(Config{
			Store:            NewMemoryStore(),
			Bots:             repo,
			Generator:        &fakeGenerator{reply: completeReply},
			Notifier:         notifier,
			DefaultLeadEmail: "fallback@spectramedia.fr",
		})

		engine.Reply(context.Background(), ReplyRequest{Message: "ok", PublicID: "avocat-001-deadbeef"})

		require.Equal(t, 1, notifier.calls)
		assert.Equal(t, "owner@werner.fr", notifier.to)
		assert.Equal(t, "Cabinet Werner", notifier.botName)
	})

	t.Run("default email last", func(t *testing.T) {
		notifier := &fakeNotifier{}
		engine := newTestEngine(t, &fakeGenerator{reply: completeReply}, notifier)

		engine.Reply(context.Background(), ReplyRequest{Message: "ok"})

		require.Equal(t, 1, notifier.calls)
		assert.Equal(t, "fallback@spectramedia.fr", notifier.to)
	})
}

func TestReplyUnknownBotFallsBackToDefaultDemo(t *testing.T) {
	gen := &fakeGenerator{reply: "Bonjour !"}
	engine := newTestEngine(t, gen, nil)

	engine.Reply(context.Background(), ReplyRequest{Message: "Bonjour", PublicID: "no-such-bot"})

	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.system, "RÈGLES OBLIGATOIRES")
}

func TestReplyDemoBotSkipsQualificationPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: "Bonjour !"}
	engine := newTestEngine(t, gen, nil)

	engine.Reply(context.Background(), ReplyRequest{Message: "Bonjour", PublicID: bots.DemoBotKey})

	assert.Equal(t, 1, gen.calls)
	assert.NotContains(t, gen.system, "RÈGLES OBLIGATOIRES")
}

func TestReplyWindowsHistoryForModel(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, "conv-w", chat.User("question"), chat.Assistant("réponse")))
	}

	gen := &fakeGenerator{reply: "ok"}
	engine := NewEngine(Config{Store: store, Generator: gen})

	engine.Reply(ctx, ReplyRequest{Message: "Bonjour", ConvID: "conv-w"})

	assert.Len(t, gen.history, HistoryWindow)
}

func TestResetClearsConversation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "conv-r", chat.User("Bonjour")))

	engine := NewEngine(Config{Store: store})
	require.NoError(t, engine.Reset(ctx, "conv-r"))

	history, err := store.History(ctx, "conv-r")
	require.NoError(t, err)
	assert.Empty(t, history)
}
