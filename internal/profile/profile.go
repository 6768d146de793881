package profile

import (
	"regexp"
	"strings"
)

// Profile holds the structured contact fields derived from the free-text
// blob a business pastes during onboarding. Fields with no match stay empty.
type Profile struct {
	Raw     string `json:"raw"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Hours   string `json:"hours"`
}

// ---------- package-level compiled regexes ----------

var (
	emailRE   = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRE   = regexp.MustCompile(`(\+?\d[\d .\-]{6,})`)
	hoursRE   = regexp.MustCompile(`(?i)(horaire|heures?|ouvertures?)\s*[:\-]?\s*(.+)`)
	nameRE    = regexp.MustCompile(`(?i)(?:nom|entreprise|cabinet)\s*[:\-]?\s*(.+)`)
	addressRE = regexp.MustCompile(`(?i)(?:adresse|address)\s*[:\-]?\s*(.+)`)
)

// Parse scans the raw contact blob with independent first-match patterns.
// Every scan is optional and order-independent; an empty input yields an
// all-empty profile. Parse never fails.
func Parse(raw string) Profile {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Profile{}
	}

	p := Profile{Raw: raw}
	p.Email = emailRE.FindString(raw)
	if m := phoneRE.FindStringSubmatch(raw); m != nil {
		p.Phone = strings.TrimSpace(m[1])
	}
	if m := hoursRE.FindStringSubmatch(raw); m != nil {
		p.Hours = strings.TrimSpace(m[2])
	}
	if m := nameRE.FindStringSubmatch(raw); m != nil {
		p.Name = strings.TrimSpace(m[1])
	}
	if m := addressRE.FindStringSubmatch(raw); m != nil {
		p.Address = strings.TrimSpace(m[1])
	}
	return p
}
