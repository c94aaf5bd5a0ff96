package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderator/api/internal/classify"
	"moderator/api/internal/config"
	"moderator/api/internal/metrics"
	"moderator/api/internal/models"
	"moderator/api/internal/repository"
	"moderator/api/internal/service"
)

type fakeModerator struct {
	textResult  classify.Result
	imageResult classify.Result
	err         error
	lastText    service.TextInput
}

func (f *fakeModerator) ModerateText(_ context.Context, input service.TextInput) (classify.Result, error) {
	f.lastText = input
	return f.textResult, f.err
}

func (f *fakeModerator) ModerateImage(_ context.Context, _ service.ImageInput) (classify.Result, error) {
	return f.imageResult, f.err
}

type fakeAnalytics struct {
	summary  repository.AnalyticsSummary
	err      error
	lastUser string
}

func (f *fakeAnalytics) Summary(_ context.Context, email string) (repository.AnalyticsSummary, error) {
	f.lastUser = email
	return f.summary, f.err
}

func newTestRouter(moderator Moderator, analytics AnalyticsProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	h := NewHandlerSet(zerolog.Nop(), &config.AppConfig{}, moderator, analytics, metrics.New())
	h.Register(engine)
	return engine
}

func performJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAlwaysOK(t *testing.T) {
	router := newTestRouter(&fakeModerator{}, &fakeAnalytics{})

	rec := performJSON(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestModerateTextReturnsClassification(t *testing.T) {
	moderator := &fakeModerator{
		textResult: classify.Result{
			Classification: models.ClassificationToxic,
			Confidence:     0.95,
			Reasoning:      "Detected inappropriate content.",
			RawResponse:    json.RawMessage(`{"mock": true}`),
		},
	}
	router := newTestRouter(moderator, &fakeAnalytics{})

	rec := performJSON(t, router, http.MethodPost, "/api/v1/moderate/text", `{"email":"a@b.com","text":"this is spam"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Classification string          `json:"classification"`
		Confidence     float64         `json:"confidence"`
		Reasoning      string          `json:"reasoning"`
		LLMResponse    json.RawMessage `json:"llm_response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "toxic", resp.Classification)
	assert.InDelta(t, 0.95, resp.Confidence, 0.001)
	assert.NotEmpty(t, resp.Reasoning)
	assert.JSONEq(t, `{"mock": true}`, string(resp.LLMResponse))

	assert.Equal(t, "a@b.com", moderator.lastText.Email)
	assert.Equal(t, "this is spam", moderator.lastText.Text)
}

func TestModerateTextValidation(t *testing.T) {
	router := newTestRouter(&fakeModerator{}, &fakeAnalytics{})

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"text":"hello"}`},
		{"invalid email", `{"email":"not-an-email","text":"hello"}`},
		{"missing text", `{"email":"a@b.com"}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performJSON(t, router, http.MethodPost, "/api/v1/moderate/text", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestModerateTextPipelineFailureIs500(t *testing.T) {
	moderator := &fakeModerator{err: errors.New("provider unreachable")}
	router := newTestRouter(moderator, &fakeAnalytics{})

	rec := performJSON(t, router, http.MethodPost, "/api/v1/moderate/text", `{"email":"a@b.com","text":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// internals must not leak to the caller
	assert.JSONEq(t, `{"detail":"Moderation failed"}`, rec.Body.String())
}

func TestModerateImageStubResponse(t *testing.T) {
	moderator := &fakeModerator{imageResult: classify.ImageStub()}
	router := newTestRouter(moderator, &fakeAnalytics{})

	rec := performJSON(t, router, http.MethodPost, "/api/v1/moderate/image", `{"email":"a@b.com","image_data":"aGVsbG8="}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Classification string  `json:"classification"`
		Confidence     float64 `json:"confidence"`
		Reasoning      string  `json:"reasoning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "safe", resp.Classification)
	assert.Equal(t, 1.0, resp.Confidence)
	assert.Equal(t, "Image moderation not implemented (mock).", resp.Reasoning)
}

func TestAnalyticsSummary(t *testing.T) {
	last := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	analytics := &fakeAnalytics{
		summary: repository.AnalyticsSummary{
			TotalRequests:      5,
			InappropriateCount: 2,
			LastRequest:        &last,
		},
	}
	router := newTestRouter(&fakeModerator{}, analytics)

	rec := performJSON(t, router, http.MethodGet, "/api/v1/analytics/summary?user=a@b.com", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalRequests      int64      `json:"total_requests"`
		InappropriateCount int64      `json:"inappropriate_count"`
		LastRequest        *time.Time `json:"last_request"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, int64(5), resp.TotalRequests)
	assert.Equal(t, int64(2), resp.InappropriateCount)
	require.NotNil(t, resp.LastRequest)
	assert.True(t, last.Equal(*resp.LastRequest))
	assert.Equal(t, "a@b.com", analytics.lastUser)
}

func TestAnalyticsSummaryFailureIs500(t *testing.T) {
	analytics := &fakeAnalytics{err: errors.New("db down")}
	router := newTestRouter(&fakeModerator{}, analytics)

	rec := performJSON(t, router, http.MethodGet, "/api/v1/analytics/summary", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsEndpointRegistered(t *testing.T) {
	router := newTestRouter(&fakeModerator{}, &fakeAnalytics{})

	rec := performJSON(t, router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
