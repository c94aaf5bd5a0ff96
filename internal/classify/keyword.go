package classify

import (
	"context"
	"encoding/json"
	"strings"

	"moderator/api/internal/models"
)

var blockedKeywords = []string{"bad", "hate", "spam", "abuse"}

// KeywordClassifier flags text containing any blocked keyword as toxic.
// Matching is a case-insensitive substring check, so "Spammy" trips on
// "spam". It never returns an error.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(_ context.Context, text string) (Result, error) {
	lowered := strings.ToLower(text)
	for _, keyword := range blockedKeywords {
		if strings.Contains(lowered, keyword) {
			return Result{
				Classification: models.ClassificationToxic,
				Confidence:     0.95,
				Reasoning:      "Detected inappropriate content.",
				RawResponse:    json.RawMessage(`{"mock": true}`),
			}, nil
		}
	}

	return Result{
		Classification: models.ClassificationSafe,
		Confidence:     0.95,
		Reasoning:      "No inappropriate content detected.",
		RawResponse:    json.RawMessage(`{"mock": true}`),
	}, nil
}
