package chat

// Roles of a conversation turn, matching the chat-completion wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a conversation. Histories are ordered,
// append-only sequences of turns.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// User builds a visitor turn.
func User(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// Assistant builds a bot turn.
func Assistant(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}
