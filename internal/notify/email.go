package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"moderator/api/internal/config"
)

// EmailNotifier sends alerts through a Brevo-style transactional email API.
// A missing API key disables the channel gracefully.
type EmailNotifier struct {
	endpoint   string
	apiKey     string
	sender     string
	senderName string
	client     *http.Client
	log        zerolog.Logger
}

func NewEmailNotifier(cfg config.NotifyConfig, log zerolog.Logger) *EmailNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmailNotifier{
		endpoint:   cfg.EmailEndpoint,
		apiKey:     cfg.EmailAPIKey,
		sender:     cfg.EmailSender,
		senderName: cfg.SenderName,
		client:     &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (n *EmailNotifier) Channel() string {
	return "email"
}

type emailPayload struct {
	Sender      emailAddress   `json:"sender"`
	To          []emailAddress `json:"to"`
	Subject     string         `json:"subject"`
	TextContent string         `json:"textContent"`
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (n *EmailNotifier) Notify(ctx context.Context, recipient, message string) bool {
	if n.apiKey == "" {
		n.log.Warn().Msg("email notifier not configured, skipping")
		return false
	}

	payload, err := json.Marshal(emailPayload{
		Sender:      emailAddress{Email: n.sender, Name: n.senderName},
		To:          []emailAddress{{Email: recipient}},
		Subject:     "Content moderation alert",
		TextContent: message,
	})
	if err != nil {
		n.log.Error().Err(err).Msg("marshal email payload")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		n.log.Error().Err(err).Msg("build email request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Error().Err(err).Str("recipient", recipient).Msg("email delivery failed")
		return false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return true
	default:
		n.log.Error().Int("status", resp.StatusCode).Msg("email provider rejected notification")
		return false
	}
}
