package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"moderator/api/internal/classify"
	"moderator/api/internal/config"
	"moderator/api/internal/metrics"
	"moderator/api/internal/repository"
	"moderator/api/internal/service"
)

// Moderator is the pipeline surface the HTTP layer depends on.
type Moderator interface {
	ModerateText(ctx context.Context, input service.TextInput) (classify.Result, error)
	ModerateImage(ctx context.Context, input service.ImageInput) (classify.Result, error)
}

// AnalyticsProvider serves the denormalized summary view.
type AnalyticsProvider interface {
	Summary(ctx context.Context, email string) (repository.AnalyticsSummary, error)
}

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	moderator Moderator
	analytics AnalyticsProvider
	metrics   *metrics.Metrics
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, moderator Moderator, analytics AnalyticsProvider, m *metrics.Metrics) HandlerSet {
	return HandlerSet{
		log:       log,
		cfg:       cfg,
		moderator: moderator,
		analytics: analytics,
		metrics:   m,
	}
}

func (h HandlerSet) Register(engine *gin.Engine) {
	engine.GET("/health", h.Health)

	if h.metrics != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{})))
	}

	v1 := engine.Group("/api/v1")
	{
		moderate := v1.Group("/moderate")
		moderate.POST("/text", h.ModerateText)
		moderate.POST("/image", h.ModerateImage)

		v1.GET("/analytics/summary", h.AnalyticsSummary)
	}
}
