// Package queue moves notification dispatch off the request path. Tasks
// travel over a redis stream with consumer-group semantics, so delivery
// work survives a crashed consumer and can be reclaimed.
package queue

import (
	"encoding/json"

	"moderator/api/internal/models"
)

// DispatchTask asks the dispatcher to alert about one flagged request.
type DispatchTask struct {
	RequestID      string                `json:"requestId"`
	Email          string                `json:"email"`
	Classification models.Classification `json:"classification"`
}

// Values encodes the task as redis stream fields.
func (t DispatchTask) Values() map[string]any {
	return map[string]any{
		"requestId":      t.RequestID,
		"email":          t.Email,
		"classification": string(t.Classification),
	}
}

// DecodeTask rebuilds a task from redis stream fields.
func DecodeTask(values map[string]any) (DispatchTask, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return DispatchTask{}, err
	}
	var task DispatchTask
	if err := json.Unmarshal(raw, &task); err != nil {
		return DispatchTask{}, err
	}
	return task, nil
}
