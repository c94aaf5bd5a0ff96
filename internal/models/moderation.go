package models

import (
	"encoding/json"
	"time"
)

type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusCompleted RequestStatus = "completed"
)

type Classification string

const (
	ClassificationToxic      Classification = "toxic"
	ClassificationSpam       Classification = "spam"
	ClassificationHarassment Classification = "harassment"
	ClassificationSafe       Classification = "safe"
)

// Inappropriate reports whether the classification requires alerting.
func (c Classification) Inappropriate() bool {
	return c != ClassificationSafe
}

type NotificationStatus string

const (
	NotificationStatusPending     NotificationStatus = "pending"
	NotificationStatusNotRequired NotificationStatus = "not_required"
	NotificationStatusSent        NotificationStatus = "sent"
	NotificationStatusFailed      NotificationStatus = "failed"
)

// ModerationRequest is one inbound submission. Status transitions exactly
// once from pending to completed; a row may remain pending if classification
// failed after the request was flushed.
type ModerationRequest struct {
	ID          string
	Email       string
	ContentType ContentType
	ContentHash string
	Status      RequestStatus
	CreatedAt   time.Time
}

// ModerationResult is the classification outcome for a request. Immutable
// once written; a completed request owns exactly one.
type ModerationResult struct {
	ID             string
	RequestID      string
	Classification Classification
	Confidence     float64
	Reasoning      string
	LLMResponse    json.RawMessage
	CreatedAt      time.Time
}

// NotificationLog is one delivery attempt record. Append-only.
type NotificationLog struct {
	ID        string
	RequestID string
	Channel   string
	Status    NotificationStatus
	SentAt    time.Time
}

// ModerationSummary is the denormalized analytics projection of a request,
// its result and its notification outcome. Serves analytics without joins.
type ModerationSummary struct {
	ID                 string
	RequestID          string
	Text               string
	Classification     Classification
	Confidence         float64
	NotificationStatus NotificationStatus
	CreatedAt          time.Time
}
