package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spectramedia/bettybot/internal/chat"
)

func TestFromHistoryCollectsAllFields(t *testing.T) {
	history := []chat.Turn{
		chat.User("Je m'appelle Jean Dupont"),
		chat.User("jean@ex.com"),
		chat.User("0601020304"),
	}

	lead := FromHistory(history)

	assert.Equal(t, "Jean Dupont", lead.Name)
	assert.Equal(t, "jean@ex.com", lead.Email)
	assert.Equal(t, "0601020304", lead.Phone)
	assert.Equal(t, StageReady, lead.Stage)
}

func TestFromHistoryEmpty(t *testing.T) {
	lead := FromHistory(nil)
	assert.Equal(t, Lead{Stage: StageCollecting}, lead)
}

func TestFromHistoryIgnoresAssistantTurns(t *testing.T) {
	history := []chat.Turn{
		chat.Assistant("Je m'appelle Betty, et mon email est betty@spectramedia.online"),
		chat.User("Bonjour"),
	}

	lead := FromHistory(history)

	assert.Empty(t, lead.Name)
	assert.Empty(t, lead.Email)
	assert.Equal(t, StageCollecting, lead.Stage)
}

func TestFromHistoryPartialStaysCollecting(t *testing.T) {
	tests := []struct {
		name    string
		history []chat.Turn
	}{
		{"phone only", []chat.Turn{chat.User("0601020304")}},
		{"phone and name", []chat.Turn{chat.User("nom : Marie Curie, tel 0601020304")}},
		{"email only", []chat.Turn{chat.User("marie@ex.fr")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := FromHistory(tt.history)
			assert.Equal(t, StageCollecting, lead.Stage)
			assert.False(t, lead.Complete())
		})
	}
}

func TestFromHistoryReasonAndAvailability(t *testing.T) {
	history := []chat.Turn{
		chat.User("Je souhaite un rendez-vous pour un divorce"),
		chat.User("Plutôt mardi matin si possible"),
	}

	lead := FromHistory(history)

	assert.NotEmpty(t, lead.Reason)
	assert.Contains(t, lead.Availability, "mardi")
	assert.Equal(t, StageCollecting, lead.Stage)
}

func TestFromHistoryReadyImpliesComplete(t *testing.T) {
	histories := [][]chat.Turn{
		nil,
		{chat.User("06 01 02 03 04")},
		{chat.User("je m'appelle Anna"), chat.User("anna@ex.com")},
		{chat.User("nom: Paul Roux 0601020304 paul@ex.com")},
		{chat.User("lundi soir, motif : achat appartement")},
	}
	for _, h := range histories {
		lead := FromHistory(h)
		if lead.Stage == StageReady {
			assert.True(t, lead.Complete(), "ready lead must have phone, name, email: %+v", lead)
		}
	}
}
