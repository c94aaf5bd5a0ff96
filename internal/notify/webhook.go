package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// WebhookNotifier posts alerts to a chat webhook (Slack-style payload).
// An empty URL means the channel is disabled, not broken.
type WebhookNotifier struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

func NewWebhookNotifier(url string, timeout time.Duration, log zerolog.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (n *WebhookNotifier) Channel() string {
	return "slack"
}

func (n *WebhookNotifier) Notify(ctx context.Context, _ string, message string) bool {
	if n.url == "" {
		n.log.Warn().Msg("webhook notifier not configured, skipping")
		return false
	}

	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		n.log.Error().Err(err).Msg("marshal webhook payload")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		n.log.Error().Err(err).Msg("build webhook request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Error().Err(err).Msg("webhook delivery failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.log.Error().Int("status", resp.StatusCode).Msg("webhook rejected notification")
		return false
	}
	return true
}
