package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spectramedia/bettybot/pkg/logging"
)

// EmailSender defines the interface for sending emails. Implementations can
// be swapped (Mailjet, SMTP, stub) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	Subject string
	Body    string // Plain text body
}

// MailjetConfig holds credentials and sender identity for Mailjet.
type MailjetConfig struct {
	APIKey    string
	APISecret string
	FromEmail string
	FromName  string
}

// MailjetSender sends emails through the Mailjet v3.1 send API using basic
// auth. Requests are bounded by a fixed timeout.
type MailjetSender struct {
	cfg        MailjetConfig
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewMailjetSender creates a Mailjet email sender. Returns nil when the
// credentials are absent so callers can fall back to the stub.
func NewMailjetSender(cfg MailjetConfig, logger *logging.Logger) *MailjetSender {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Spectra Media AI"
	}
	return &MailjetSender{
		cfg:        cfg,
		baseURL:    "https://api.mailjet.com",
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// WithBaseURL overrides the Mailjet API base URL (for testing).
func (s *MailjetSender) WithBaseURL(baseURL string) *MailjetSender {
	if baseURL != "" {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
	return s
}

type mailjetParty struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetMessage struct {
	From     mailjetParty   `json:"From"`
	To       []mailjetParty `json:"To"`
	Subject  string         `json:"Subject"`
	TextPart string         `json:"TextPart"`
}

type mailjetPayload struct {
	Messages []mailjetMessage `json:"Messages"`
}

// Send posts the message to Mailjet. A non-2xx status is an error; the
// caller decides whether to drop or report it.
func (s *MailjetSender) Send(ctx context.Context, msg EmailMessage) error {
	payload := mailjetPayload{
		Messages: []mailjetMessage{{
			From:     mailjetParty{Email: s.cfg.FromEmail, Name: s.cfg.FromName},
			To:       []mailjetParty{{Email: msg.To}},
			Subject:  msg.Subject,
			TextPart: msg.Body,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: failed to marshal mailjet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3.1/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: failed to build mailjet request: %w", err)
	}
	req.SetBasicAuth(s.cfg.APIKey, s.cfg.APISecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("mailjet send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: mailjet send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		s.logger.Error("mailjet returned error status", "status", resp.StatusCode, "body", string(snippet), "to", msg.To)
		return fmt.Errorf("notify: mailjet returned status %d", resp.StatusCode)
	}

	s.logger.Info("email sent via mailjet", "to", msg.To, "subject", msg.Subject, "status", resp.StatusCode)
	return nil
}

// StubEmailSender is a no-op sender for testing or when email is disabled.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender that logs but doesn't send.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email", "to", msg.To, "subject", msg.Subject)
	return nil
}
