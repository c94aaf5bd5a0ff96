package classify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderator/api/internal/config"
	"moderator/api/internal/models"
)

func providerFor(t *testing.T, handler http.HandlerFunc) *ProviderClassifier {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewProviderClassifier(config.ClassifierConfig{
		Provider: "openai",
		APIKey:   "test-key",
		Endpoint: srv.URL,
		Model:    "gpt-4o-mini",
		Timeout:  2 * time.Second,
	}, zerolog.Nop())
}

func chatBody(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"content":%q}}]}`, content)
}

func TestProviderClassifierLabelPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    models.Classification
	}{
		{"toxic wins over spam", "This is toxic and also spam.", models.ClassificationToxic},
		{"spam wins over harassment", "Looks like spam, maybe harassment.", models.ClassificationSpam},
		{"harassment", "Clear harassment here.", models.ClassificationHarassment},
		{"unmatched is safe", "Nothing problematic found.", models.ClassificationSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := providerFor(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				fmt.Fprint(w, chatBody(tt.content))
			})

			result, err := classifier.Classify(context.Background(), "some text")
			require.NoError(t, err)

			assert.Equal(t, tt.want, result.Classification)
			assert.InDelta(t, 0.95, result.Confidence, 0.001)
			assert.Equal(t, tt.content, result.Reasoning)
			assert.JSONEq(t, chatBody(tt.content), string(result.RawResponse))
		})
	}
}

func TestProviderClassifierNon2xxIsError(t *testing.T) {
	t.Parallel()

	classifier := providerFor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := classifier.Classify(context.Background(), "some text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestProviderClassifierEmptyChoicesIsSafe(t *testing.T) {
	t.Parallel()

	classifier := providerFor(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})

	result, err := classifier.Classify(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, models.ClassificationSafe, result.Classification)
}

func TestImageStub(t *testing.T) {
	t.Parallel()

	result := ImageStub()
	assert.Equal(t, models.ClassificationSafe, result.Classification)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, "Image moderation not implemented (mock).", result.Reasoning)
}
