package notify

import (
	"context"
	"fmt"

	"github.com/spectramedia/bettybot/internal/leads"
	"github.com/spectramedia/bettybot/internal/observability/metrics"
	"github.com/spectramedia/bettybot/pkg/logging"
)

// Service emails qualified leads to bot owners. Dispatch is single-shot:
// failures are logged and dropped, never retried and never surfaced to the
// visitor.
type Service struct {
	email   EmailSender
	metrics *metrics.ChatMetrics
	logger  *logging.Logger
}

// NewService creates a lead notification service.
func NewService(email EmailSender, m *metrics.ChatMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, metrics: m, logger: logger}
}

// SendLead emails the lead record to the bot owner. A missing sender or
// empty recipient is a configuration gap, not an error.
func (s *Service) SendLead(ctx context.Context, to, botName string, lead leads.Lead) {
	if s.email == nil || to == "" {
		s.logger.Warn("notify: email sender or recipient missing, lead not emailed", "to", to, "bot", botName)
		s.metrics.ObserveLeadEmail("skipped")
		return
	}
	if botName == "" {
		botName = "Betty Bot"
	}

	msg := EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Nouveau lead qualifié via %s", botName),
		Body:    leadBody(lead),
	}

	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: failed to email lead", "error", err, "to", to, "bot", botName)
		s.metrics.ObserveLeadEmail("failed")
		return
	}
	s.logger.Info("notify: lead emailed", "to", to, "bot", botName)
	s.metrics.ObserveLeadEmail("sent")
}

// leadBody renders the labeled plain-text summary the owner receives.
func leadBody(lead leads.Lead) string {
	return fmt.Sprintf(
		"Motif        : %s\n"+
			"Nom          : %s\n"+
			"Email        : %s\n"+
			"Téléphone    : %s\n"+
			"Disponibilités : %s\n"+
			"Statut       : %s\n",
		lead.Reason, lead.Name, lead.Email, lead.Phone, lead.Availability, lead.Stage,
	)
}
