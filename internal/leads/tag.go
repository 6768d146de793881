package leads

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The machine-readable tag every assistant response must end with. The JSON
// body may span multiple lines and the whole tag may be wrapped in inline
// code markers by a sloppy model.
var leadTagRE = regexp.MustCompile("(?s)`?\\s*<LEAD_JSON>\\s*(\\{.*?\\})\\s*</LEAD_JSON>\\s*`?\\s*$")

// ExtractTag splits model output into the user-visible text and the lead
// parsed from the trailing <LEAD_JSON> tag. If no tag is anchored to the end
// of the text, the input comes back unchanged with a nil lead. A tag whose
// body fails to parse is still stripped from the display text.
func ExtractTag(text string) (string, *Lead) {
	if text == "" {
		return text, nil
	}
	m := leadTagRE.FindStringSubmatchIndex(text)
	if m == nil {
		return text, nil
	}

	display := strings.TrimRight(text[:m[0]], " \t\r\n")
	body := text[m[2]:m[3]]

	var lead Lead
	if err := json.Unmarshal([]byte(body), &lead); err != nil {
		return display, nil
	}
	lead = lead.Normalize()
	return display, &lead
}

// FormatTag serializes a lead into the single-line tag form the prompt
// mandates, so fallback responses are indistinguishable from model output
// downstream.
func FormatTag(lead Lead) string {
	data, err := json.Marshal(lead.Normalize())
	if err != nil {
		// Lead is a flat string struct; Marshal cannot fail on it.
		return "<LEAD_JSON>{}</LEAD_JSON>"
	}
	return "<LEAD_JSON>" + string(data) + "</LEAD_JSON>"
}

// StripTag removes any residual end-anchored tag from display text before
// it reaches the visitor.
var residualTagRE = regexp.MustCompile(`(?s)<LEAD_JSON>.*?</LEAD_JSON>\s*$`)

func StripTag(text string) string {
	return strings.TrimRight(residualTagRE.ReplaceAllString(text, ""), " \t\r\n")
}
