package leads

// Stage values for a lead. A lead is "ready" once the visitor has handed
// over phone, full name, and email; until then it stays "collecting".
const (
	StageCollecting = "collecting"
	StageReady      = "ready"
)

// Lead is the structured contact/intent record extracted from a
// conversation. It is rebuilt from scratch on every turn; there is no
// persisted partial lead.
type Lead struct {
	Reason       string `json:"reason"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Availability string `json:"availability"`
	Stage        string `json:"stage"`
}

// Complete reports whether phone, name, and email are all present. This is
// the single gating rule shared by the prompt instructions, the heuristic
// extractor, and the fallback generator.
func (l Lead) Complete() bool {
	return l.Phone != "" && l.Name != "" && l.Email != ""
}

// Normalize clamps the stage so that "ready" is only ever reported for a
// complete lead, whatever the model claimed in its tag.
func (l Lead) Normalize() Lead {
	if l.Stage != StageReady {
		l.Stage = StageCollecting
	}
	if l.Stage == StageReady && !l.Complete() {
		l.Stage = StageCollecting
	}
	return l
}
