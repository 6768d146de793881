package conversation

import (
	"github.com/spectramedia/bettybot/internal/chat"
	"github.com/spectramedia/bettybot/internal/leads"
)

// Literal questions asked by the deterministic path, in collection order.
const (
	askPhone   = "Quel est votre numéro de téléphone ?"
	askName    = "Quel est votre nom et prénom complets ?"
	askEmail   = "Quelle est votre adresse e-mail ?"
	askDone    = "Parfait, je transmets vos coordonnées. Vous serez rappelé rapidement."
	emptyNudge = "Dites-moi ce dont vous avez besoin 🙂"
)

// NextQuestion is the deterministic generator used when the model returns
// nothing. It rebuilds the lead from the full history (newest user turn
// included) and asks for exactly one missing field, phone first, then full
// name, then email. The pack parameter is part of the contract but does not
// influence the question today.
func NextQuestion(pack string, history []chat.Turn) string {
	_ = pack

	lead := leads.FromHistory(history)

	var msg string
	switch {
	case lead.Phone == "":
		msg = askPhone
	case lead.Name == "":
		msg = askName
	case lead.Email == "":
		msg = askEmail
	default:
		msg = askDone
		lead.Stage = leads.StageReady
	}

	return msg + "\n" + leads.FormatTag(lead)
}
