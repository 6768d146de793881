package bots

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spectramedia/bettybot/internal/profile"
)

// Bot is the stored configuration of one branded assistant: display
// metadata plus the business profile parsed at creation time. The profile
// is immutable after creation.
type Bot struct {
	PublicID   string          `json:"public_id"`
	BotKey     string          `json:"bot_key"`
	Pack       string          `json:"pack"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	AvatarFile string          `json:"avatar_file"`
	Greeting   string          `json:"greeting"`
	BuyerEmail string          `json:"buyer_email"`
	OwnerName  string          `json:"owner_name"`
	Profile    profile.Profile `json:"profile"`
}

// DefaultBotKey is the demo bot every unknown identifier resolves to, so a
// misconfigured embed still gets a working conversation.
const DefaultBotKey = "avocat-001"

// DemoBotKey is the sales-demo assistant that skips prompt building.
const DemoBotKey = "spectra-demo"

const defaultGreeting = "Bonjour, je suis Betty. Comment puis-je vous aider ?"

// DefaultGreeting returns the stock greeting used when a bot has none.
func DefaultGreeting() string { return defaultGreeting }

// demoCatalog holds the built-in bots available before any purchase.
var demoCatalog = map[string]Bot{
	"avocat-001": {
		BotKey:     "avocat-001",
		Pack:       "avocat",
		Name:       "Betty Bot (Avocat)",
		Color:      "#4F46E5",
		AvatarFile: "avocat.jpg",
	},
	"immo-002": {
		BotKey:     "immo-002",
		Pack:       "immo",
		Name:       "Betty Bot (Immobilier)",
		Color:      "#16A34A",
		AvatarFile: "immo.jpg",
	},
	"medecin-003": {
		BotKey:     "medecin-003",
		Pack:       "medecin",
		Name:       "Betty Bot (Médecin)",
		Color:      "#0284C7",
		AvatarFile: "medecin.jpg",
	},
	DemoBotKey: {
		PublicID:   DemoBotKey,
		BotKey:     DemoBotKey,
		Pack:       "avocat",
		Name:       "Betty Bot (Spectra Media)",
		Color:      "#4F46E5",
		AvatarFile: "avocat.jpg",
		Greeting:   "Bonjour et bienvenue chez Spectra Media. Souhaitez-vous créer votre Betty Bot métier ?",
		OwnerName:  "Spectra Media",
	},
}

// demoGreetings are the canned openings shown for the built-in demo bots.
var demoGreetings = map[string]string{
	"avocat-001":  "Bonjour et bienvenue au cabinet Werner & Werner. Que puis-je faire pour vous ?",
	"immo-002":    "Bonjour et bienvenue à l'agence Werner Immobilier. Comment puis-je vous aider ?",
	"medecin-003": "Bonjour et bienvenue au cabinet Werner Santé. Que puis-je faire pour vous ?",
}

// Demo returns a copy of the named demo bot.
func Demo(key string) (Bot, bool) {
	b, ok := demoCatalog[key]
	return b, ok
}

// DemoGreeting returns the canned demo greeting for a built-in bot key.
func DemoGreeting(key string) string {
	if g, ok := demoGreetings[key]; ok {
		return g
	}
	if b, ok := demoCatalog[key]; ok && b.Greeting != "" {
		return b.Greeting
	}
	return defaultGreeting
}

// BotKeyForPack maps a pack to its built-in base bot.
func BotKeyForPack(pack string) string {
	switch strings.ToLower(pack) {
	case "avocat":
		return DefaultBotKey
	case "medecin":
		return "medecin-003"
	default:
		return "immo-002"
	}
}

// PublicID derives the external-facing identifier for a purchased bot from
// the buyer email and the base bot key.
func PublicID(email, botKey string) string {
	h := sha1.Sum([]byte(email + "|" + botKey))
	return fmt.Sprintf("%s-%s", botKey, hex.EncodeToString(h[:])[:8])
}

// baseKey extracts the demo bot key embedded in a derived public id, e.g.
// "avocat-001-1a2b3c4d" -> "avocat-001". Returns "" when the id has no
// derived shape.
func baseKey(publicID string) string {
	parts := strings.Split(publicID, "-")
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[:2], "-")
}
