package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderator/api/internal/config"
)

func emailNotifierFor(t *testing.T, handler http.HandlerFunc, apiKey string) *EmailNotifier {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewEmailNotifier(config.NotifyConfig{
		EmailEndpoint: srv.URL,
		EmailAPIKey:   apiKey,
		EmailSender:   "alerts@moderator.dev",
		SenderName:    "Content Moderator",
		Timeout:       time.Second,
	}, zerolog.Nop())
}

func TestEmailNotifierAccepted(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted} {
		var payload emailPayload
		n := emailNotifierFor(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "secret", r.Header.Get("api-key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			w.WriteHeader(status)
		}, "secret")

		ok := n.Notify(context.Background(), "user@example.com", "flagged content")
		assert.True(t, ok, "status %d should count as delivered", status)
		require.Len(t, payload.To, 1)
		assert.Equal(t, "user@example.com", payload.To[0].Email)
	}
}

func TestEmailNotifierRejected(t *testing.T) {
	t.Parallel()

	n := emailNotifierFor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "secret")

	assert.False(t, n.Notify(context.Background(), "user@example.com", "flagged content"))
}

func TestEmailNotifierUnconfigured(t *testing.T) {
	t.Parallel()

	n := NewEmailNotifier(config.NotifyConfig{Timeout: time.Second}, zerolog.Nop())
	assert.False(t, n.Notify(context.Background(), "user@example.com", "flagged content"))
}
