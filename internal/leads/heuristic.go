package leads

import (
	"regexp"
	"strings"

	"github.com/spectramedia/bettybot/internal/chat"
)

// ---------- package-level compiled regexes ----------
//
// Each pattern is an independent best-effort scan over the visitor's own
// words. Tune one without touching the others.

var (
	emailRE        = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRE        = regexp.MustCompile(`(\+?\d[\d .\-]{6,})`)
	nameRE         = regexp.MustCompile(`(?i)(?:je m(?:'|e)appelle|nom\s*:?)\s*([A-Za-zÀ-ÖØ-öø-ÿ'\-\s]{2,80})`)
	reasonRE       = regexp.MustCompile(`(?i)(?:souhaite|veux|voudrais|besoin|motif|pour)\s*:?(.{5,140})`)
	availabilityRE = regexp.MustCompile(`(?i)(demain|matin|après-midi|soir|lundi|mardi|mercredi|jeudi|vendredi)[^.!?]{0,60}`)
)

// FromHistory rebuilds a lead from the conversation so far. Only turns
// authored by the visitor are scanned; assistant wording must never leak
// into the lead. An empty history yields an all-empty collecting lead.
func FromHistory(history []chat.Turn) Lead {
	lead := Lead{Stage: StageCollecting}

	var parts []string
	for _, turn := range history {
		if turn.Role == chat.RoleUser {
			parts = append(parts, turn.Content)
		}
	}
	text := strings.Join(parts, " ")
	if text == "" {
		return lead
	}

	lead.Email = emailRE.FindString(text)
	if m := phoneRE.FindStringSubmatch(text); m != nil {
		lead.Phone = strings.TrimSpace(m[1])
	}
	// The name class swallows whitespace-joined words, so an adjacent email
	// address would bleed into the capture. Mask emails out first.
	nameText := emailRE.ReplaceAllString(text, " ")
	if m := nameRE.FindStringSubmatch(nameText); m != nil {
		lead.Name = strings.TrimSpace(m[1])
	}
	if m := reasonRE.FindStringSubmatch(text); m != nil {
		lead.Reason = strings.TrimSpace(m[1])
	}
	if m := availabilityRE.FindString(text); m != "" {
		lead.Availability = strings.TrimSpace(m)
	}

	if lead.Complete() {
		lead.Stage = StageReady
	}
	return lead
}
