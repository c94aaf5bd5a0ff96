// Package classify decides which moderation category a piece of text
// belongs to. Two backends exist: a keyword mock used by default and an
// OpenAI-compatible provider enabled by configuration.
package classify

import (
	"context"
	"encoding/json"

	"moderator/api/internal/models"
)

// Result is one classification outcome. RawResponse keeps the untouched
// provider payload for the audit trail.
type Result struct {
	Classification models.Classification
	Confidence     float64
	Reasoning      string
	RawResponse    json.RawMessage
}

type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// ImageStub is the fixed outcome for image submissions. Image analysis is
// deliberately not implemented; the stub is documented behavior, not a
// placeholder waiting for a backend.
func ImageStub() Result {
	return Result{
		Classification: models.ClassificationSafe,
		Confidence:     1.0,
		Reasoning:      "Image moderation not implemented (mock).",
		RawResponse:    json.RawMessage(`{"mock": true}`),
	}
}
