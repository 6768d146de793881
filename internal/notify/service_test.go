package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectramedia/bettybot/internal/leads"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestSendLeadFormatsBody(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, nil, nil)

	svc.SendLead(context.Background(), "owner@example.com", "Betty Bot (Avocat)", leads.Lead{
		Reason:       "divorce",
		Name:         "Jean Dupont",
		Email:        "jean@ex.com",
		Phone:        "0601020304",
		Availability: "mardi matin",
		Stage:        leads.StageReady,
	})

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "owner@example.com", msg.To)
	assert.Equal(t, "Nouveau lead qualifié via Betty Bot (Avocat)", msg.Subject)
	assert.Contains(t, msg.Body, "Nom          : Jean Dupont")
	assert.Contains(t, msg.Body, "Téléphone    : 0601020304")
	assert.Contains(t, msg.Body, "Statut       : ready")
}

func TestSendLeadSkipsWithoutRecipient(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, nil, nil)

	svc.SendLead(context.Background(), "", "Betty Bot", leads.Lead{})

	assert.Empty(t, sender.sent)
}

func TestSendLeadSwallowsSenderErrors(t *testing.T) {
	sender := &recordingSender{err: errors.New("mailjet down")}
	svc := NewService(sender, nil, nil)

	assert.NotPanics(t, func() {
		svc.SendLead(context.Background(), "owner@example.com", "Betty Bot", leads.Lead{Stage: leads.StageReady})
	})
}

func TestSendLeadDefaultBotName(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, nil, nil)

	svc.SendLead(context.Background(), "owner@example.com", "", leads.Lead{})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Nouveau lead qualifié via Betty Bot", sender.sent[0].Subject)
}
