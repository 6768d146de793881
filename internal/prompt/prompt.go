package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spectramedia/bettybot/internal/profile"
	"github.com/spectramedia/bettybot/pkg/logging"
)

// defaultBase is the generic qualification instruction used whenever a pack
// document is missing or unreadable.
const defaultBase = "Tu es l'assistante AI du professionnel. Ta mission prioritaire est de QUALIFIER TRÈS VITE " +
	"(2 échanges maximum avant de demander les coordonnées), puis de proposer un rappel."

// rulesBlock is appended to every prompt regardless of vertical. It pins the
// conversational contract: short turns, one question at a time, the
// phone → name → email collection order, and the trailing machine tag.
const rulesBlock = `
RÈGLES OBLIGATOIRES (communes à TOUS les métiers) :
- Style : clair, 1 à 2 phrases max par message. Une seule question à la fois.
- Après 1–2 phrases de mise en contexte maximum, collecte IMMÉDIATEMENT :
  1) « Quel est votre numéro de téléphone ? »
  2) « Quel est votre nom et prénom complets ? »
  3) « Quelle est votre adresse e-mail ? »
- Dès que téléphone + nom complet + e-mail sont collectés, écris :
  « Parfait, je transmets vos coordonnées. Vous serez rappelé rapidement. »
- N'affiche jamais de variables (pas de {{...}}) ni de JSON à l'écran.

BALISE TECHNIQUE (dernière ligne, une seule ligne, sans markdown) :
<LEAD_JSON>{"reason":"", "name":"", "email":"", "phone":"", "availability":"", "stage":"collecting|ready"}</LEAD_JSON>

RAPPEL :
- Le JSON doit tenir sur UNE ligne.
- Passe "stage" à "ready" UNIQUEMENT quand téléphone + nom complet + email sont présents (peu importe le métier).
`

// Pack is a per-vertical prompt document.
type Pack struct {
	Prompt string `yaml:"prompt"`
}

// Builder assembles system prompts from pack documents, business profiles,
// and the fixed rule block. Building a prompt never fails; every lookup
// degrades to the generic instruction.
type Builder struct {
	packsDir string
	logger   *logging.Logger
}

// NewBuilder creates a prompt builder reading pack documents from dir.
func NewBuilder(dir string, logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Builder{packsDir: dir, logger: logger}
}

// SystemPrompt composes the full system prompt for one bot.
func (b *Builder) SystemPrompt(pack string, prof profile.Profile, greeting string) string {
	base := b.baseInstruction(pack)
	biz := businessBlock(prof)

	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n")
	sb.WriteString(biz)
	sb.WriteString("\n")
	sb.WriteString(rulesBlock)
	if greeting != "" {
		sb.WriteString("\nMessage d'accueil recommandé : ")
		sb.WriteString(greeting)
		sb.WriteString("\n")
	}
	return sb.String()
}

// baseInstruction loads the pack's base prompt, falling back to the generic
// one on any error.
func (b *Builder) baseInstruction(pack string) string {
	if pack == "" {
		return defaultBase
	}
	path := filepath.Join(b.packsDir, pack+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		b.logger.Debug("prompt: pack document unavailable, using generic instruction", "pack", pack, "error", err)
		return defaultBase
	}
	var doc Pack
	if err := yaml.Unmarshal(data, &doc); err != nil {
		b.logger.Warn("prompt: pack document malformed, using generic instruction", "pack", pack, "error", err)
		return defaultBase
	}
	if strings.TrimSpace(doc.Prompt) == "" {
		return defaultBase
	}
	return doc.Prompt
}

// businessBlock renders the non-empty profile fields as labeled bullet
// lines. An empty profile yields an empty block.
func businessBlock(prof profile.Profile) string {
	if prof == (profile.Profile{}) {
		return ""
	}
	lines := []string{"\n---\nINFORMATIONS ETABLISSEMENT (utilise-les dans tes réponses) :"}
	if prof.Name != "" {
		lines = append(lines, fmt.Sprintf("• Nom : %s", prof.Name))
	}
	if prof.Phone != "" {
		lines = append(lines, fmt.Sprintf("• Téléphone : %s", prof.Phone))
	}
	if prof.Email != "" {
		lines = append(lines, fmt.Sprintf("• Email : %s", prof.Email))
	}
	if prof.Address != "" {
		lines = append(lines, fmt.Sprintf("• Adresse : %s", prof.Address))
	}
	if prof.Hours != "" {
		lines = append(lines, fmt.Sprintf("• Horaires : %s", prof.Hours))
	}
	lines = append(lines, "---\n")
	return strings.Join(lines, "\n")
}
