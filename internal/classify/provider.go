package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"moderator/api/internal/config"
	"moderator/api/internal/models"
)

const systemInstruction = "You are a content moderator. Classify the user's text as exactly one of: toxic, spam, harassment, safe. Answer with the label and a short justification."

// placeholder until providers expose a usable score
const providerConfidence = 0.95

// ProviderClassifier sends text to an OpenAI-compatible chat-completions
// endpoint and derives the label from the first choice's content. Provider
// errors propagate to the pipeline; there is no retry.
type ProviderClassifier struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	log      zerolog.Logger
}

func NewProviderClassifier(cfg config.ClassifierConfig, log zerolog.Logger) *ProviderClassifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &ProviderClassifier{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *ProviderClassifier) Classify(ctx context.Context, text string) (Result, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("call classifier provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error().
			Int("status", resp.StatusCode).
			Msg("classifier provider returned non-2xx")
		return Result{}, fmt.Errorf("classifier provider status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("decode provider response: %w", err)
	}

	var content string
	if len(parsed.Choices) > 0 {
		content = parsed.Choices[0].Message.Content
	}

	return Result{
		Classification: labelFromContent(content),
		Confidence:     providerConfidence,
		Reasoning:      content,
		RawResponse:    json.RawMessage(body),
	}, nil
}

// labelFromContent matches in priority order: toxic beats spam beats
// harassment; anything unmatched is safe.
func labelFromContent(content string) models.Classification {
	lowered := strings.ToLower(content)
	switch {
	case strings.Contains(lowered, "toxic"):
		return models.ClassificationToxic
	case strings.Contains(lowered, "spam"):
		return models.ClassificationSpam
	case strings.Contains(lowered, "harassment"):
		return models.ClassificationHarassment
	default:
		return models.ClassificationSafe
	}
}
