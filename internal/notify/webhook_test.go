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
)

func TestWebhookNotifierDelivers(t *testing.T) {
	t.Parallel()

	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	n := NewWebhookNotifier(srv.URL, time.Second, zerolog.Nop())

	ok := n.Notify(context.Background(), "a@b.com", "alert message")
	assert.True(t, ok)
	assert.Equal(t, "alert message", received["text"])
}

func TestWebhookNotifierNon2xxFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	n := NewWebhookNotifier(srv.URL, time.Second, zerolog.Nop())
	assert.False(t, n.Notify(context.Background(), "a@b.com", "alert"))
}

func TestWebhookNotifierUnconfigured(t *testing.T) {
	t.Parallel()

	n := NewWebhookNotifier("", time.Second, zerolog.Nop())
	assert.False(t, n.Notify(context.Background(), "a@b.com", "alert"))
}
