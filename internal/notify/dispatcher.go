package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"moderator/api/internal/ids"
	"moderator/api/internal/metrics"
	"moderator/api/internal/models"
	"moderator/api/internal/queue"
)

// NotificationStore persists the outcome of a dispatch attempt.
type NotificationStore interface {
	RecordNotification(ctx context.Context, entry models.NotificationLog) error
}

// combinedChannel is the single log entry name covering both channels of
// one dispatch attempt.
const combinedChannel = "slack/email"

// Dispatcher executes dispatch tasks from the notification stream: it runs
// every configured channel independently, then records one combined log
// entry whose status reflects actual delivery. A task only errors when the
// log write fails, so the stream redelivers exactly the work that did not
// reach the database.
type Dispatcher struct {
	notifiers []Notifier
	store     NotificationStore
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

func NewDispatcher(notifiers []Notifier, store NotificationStore, m *metrics.Metrics, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		notifiers: notifiers,
		store:     store,
		metrics:   m,
		log:       log,
	}
}

func (d *Dispatcher) Handle(ctx context.Context, task queue.DispatchTask) error {
	message := AlertMessage(task.Email, task.Classification)

	delivered := false
	for _, notifier := range d.notifiers {
		ok := notifier.Notify(ctx, task.Email, message)
		if d.metrics != nil {
			d.metrics.ObserveNotification(notifier.Channel(), ok)
		}
		if ok {
			delivered = true
		}
		d.log.Info().
			Str("request_id", task.RequestID).
			Str("channel", notifier.Channel()).
			Bool("delivered", ok).
			Msg("notification attempt")
	}

	status := models.NotificationStatusSent
	if !delivered {
		status = models.NotificationStatusFailed
	}

	entry := models.NotificationLog{
		ID:        ids.New(),
		RequestID: task.RequestID,
		Channel:   combinedChannel,
		Status:    status,
	}
	if err := d.store.RecordNotification(ctx, entry); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}

// AlertMessage builds the text sent over every channel for a flagged
// submission.
func AlertMessage(email string, classification models.Classification) string {
	return fmt.Sprintf("Inappropriate content detected for %s: %s", email, classification)
}
