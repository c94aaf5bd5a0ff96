package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderator/api/internal/metrics"
	"moderator/api/internal/models"
	"moderator/api/internal/queue"
)

type stubNotifier struct {
	channel   string
	delivered bool
	calls     int
}

func (s *stubNotifier) Channel() string { return s.channel }

func (s *stubNotifier) Notify(_ context.Context, _, _ string) bool {
	s.calls++
	return s.delivered
}

type recordingStore struct {
	entries []models.NotificationLog
	err     error
}

func (r *recordingStore) RecordNotification(_ context.Context, entry models.NotificationLog) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func dispatchTask() queue.DispatchTask {
	return queue.DispatchTask{
		RequestID:      "req-1",
		Email:          "a@b.com",
		Classification: models.ClassificationToxic,
	}
}

func TestDispatcherLogsSentWhenAnyChannelDelivers(t *testing.T) {
	t.Parallel()

	slack := &stubNotifier{channel: "slack", delivered: false}
	email := &stubNotifier{channel: "email", delivered: true}
	store := &recordingStore{}

	d := NewDispatcher([]Notifier{slack, email}, store, metrics.New(), zerolog.Nop())
	require.NoError(t, d.Handle(context.Background(), dispatchTask()))

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "slack/email", entry.Channel)
	assert.Equal(t, models.NotificationStatusSent, entry.Status)
	assert.NotEmpty(t, entry.ID)

	// both channels attempted independently even though the first failed
	assert.Equal(t, 1, slack.calls)
	assert.Equal(t, 1, email.calls)
}

func TestDispatcherLogsFailedWhenAllChannelsFail(t *testing.T) {
	t.Parallel()

	store := &recordingStore{}
	d := NewDispatcher([]Notifier{
		&stubNotifier{channel: "slack"},
		&stubNotifier{channel: "email"},
	}, store, metrics.New(), zerolog.Nop())

	require.NoError(t, d.Handle(context.Background(), dispatchTask()))

	require.Len(t, store.entries, 1)
	assert.Equal(t, models.NotificationStatusFailed, store.entries[0].Status)
}

func TestDispatcherPropagatesStoreError(t *testing.T) {
	t.Parallel()

	store := &recordingStore{err: errors.New("db down")}
	d := NewDispatcher([]Notifier{&stubNotifier{channel: "slack", delivered: true}}, store, metrics.New(), zerolog.Nop())

	err := d.Handle(context.Background(), dispatchTask())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record notification")
}

func TestAlertMessage(t *testing.T) {
	t.Parallel()

	msg := AlertMessage("a@b.com", models.ClassificationSpam)
	assert.Equal(t, "Inappropriate content detected for a@b.com: spam", msg)
}
