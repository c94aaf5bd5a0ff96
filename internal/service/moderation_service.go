package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"

	"moderator/api/internal/classify"
	"moderator/api/internal/hashing"
	"moderator/api/internal/ids"
	"moderator/api/internal/metrics"
	"moderator/api/internal/models"
	"moderator/api/internal/queue"
)

// ModerationStore is the slice of the repository the pipeline drives.
type ModerationStore interface {
	CreateRequest(ctx context.Context, req models.ModerationRequest) error
	CompleteRequest(ctx context.Context, result models.ModerationResult, summary models.ModerationSummary) error
}

// DispatchQueue hands flagged submissions to the background notifier.
type DispatchQueue interface {
	Enqueue(ctx context.Context, task queue.DispatchTask) error
}

// ImageArchive stores raw image payloads for later review.
type ImageArchive interface {
	Put(ctx context.Context, contentHash string, data []byte, contentType string) error
}

type TextInput struct {
	Email string
	Text  string
}

type ImageInput struct {
	Email     string
	ImageData string // base64
}

// ModerationService runs the per-submission pipeline: hash, persist the
// pending request, classify, commit result+summary+completion as one unit,
// then enqueue alerting for flagged content. The enqueue is synchronous but
// delivery is not; the caller never waits on notification outcome.
type ModerationService struct {
	store      ModerationStore
	classifier classify.Classifier
	dispatch   DispatchQueue
	archive    ImageArchive
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

func NewModerationService(
	store ModerationStore,
	classifier classify.Classifier,
	dispatch DispatchQueue,
	archive ImageArchive,
	m *metrics.Metrics,
	log zerolog.Logger,
) *ModerationService {
	return &ModerationService{
		store:      store,
		classifier: classifier,
		dispatch:   dispatch,
		archive:    archive,
		metrics:    m,
		log:        log,
	}
}

func (s *ModerationService) ModerateText(ctx context.Context, input TextInput) (classify.Result, error) {
	contentHash := hashing.Fingerprint([]byte(input.Text))

	req := models.ModerationRequest{
		ID:          ids.New(),
		Email:       input.Email,
		ContentType: models.ContentTypeText,
		ContentHash: contentHash,
		Status:      models.RequestStatusPending,
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return classify.Result{}, fmt.Errorf("create request: %w", err)
	}

	result, err := s.classifier.Classify(ctx, input.Text)
	if err != nil {
		// the request row stays pending; that is the accepted partial state
		if s.metrics != nil {
			s.metrics.ClassifierErrors.Inc()
		}
		return classify.Result{}, fmt.Errorf("classify: %w", err)
	}

	if err := s.complete(ctx, req, result, input.Text); err != nil {
		return classify.Result{}, err
	}

	if result.Classification.Inappropriate() {
		s.enqueueDispatch(ctx, req, result.Classification)
	}

	return result, nil
}

func (s *ModerationService) ModerateImage(ctx context.Context, input ImageInput) (classify.Result, error) {
	contentHash := hashing.Fingerprint([]byte(input.ImageData))

	req := models.ModerationRequest{
		ID:          ids.New(),
		Email:       input.Email,
		ContentType: models.ContentTypeImage,
		ContentHash: contentHash,
		Status:      models.RequestStatusPending,
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return classify.Result{}, fmt.Errorf("create request: %w", err)
	}

	// image analysis is a documented stub: every image is safe
	result := classify.ImageStub()

	if err := s.complete(ctx, req, result, contentHash); err != nil {
		return classify.Result{}, err
	}

	s.archiveImage(ctx, req, input.ImageData)

	return result, nil
}

// complete commits the classification as one durable unit. The summary's
// notification status seeds the queryable dispatch state: not_required for
// safe content, pending until the dispatcher resolves it otherwise.
func (s *ModerationService) complete(ctx context.Context, req models.ModerationRequest, result classify.Result, summaryText string) error {
	notificationStatus := models.NotificationStatusNotRequired
	if result.Classification.Inappropriate() {
		notificationStatus = models.NotificationStatusPending
	}

	modResult := models.ModerationResult{
		ID:             ids.New(),
		RequestID:      req.ID,
		Classification: result.Classification,
		Confidence:     result.Confidence,
		Reasoning:      result.Reasoning,
		LLMResponse:    result.RawResponse,
	}
	summary := models.ModerationSummary{
		ID:                 ids.New(),
		RequestID:          req.ID,
		Text:               summaryText,
		Classification:     result.Classification,
		Confidence:         result.Confidence,
		NotificationStatus: notificationStatus,
	}

	if err := s.store.CompleteRequest(ctx, modResult, summary); err != nil {
		return fmt.Errorf("complete request: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ObserveRequest(string(req.ContentType), string(result.Classification))
	}
	return nil
}

// enqueueDispatch schedules alerting without blocking the response. A failed
// enqueue is logged and left for the reconciler, which re-drives completed
// requests that have no notification log.
func (s *ModerationService) enqueueDispatch(ctx context.Context, req models.ModerationRequest, classification models.Classification) {
	task := queue.DispatchTask{
		RequestID:      req.ID,
		Email:          req.Email,
		Classification: classification,
	}
	if err := s.dispatch.Enqueue(ctx, task); err != nil {
		s.log.Error().
			Err(err).
			Str("request_id", req.ID).
			Msg("enqueue notification dispatch failed")
	}
}

func (s *ModerationService) archiveImage(ctx context.Context, req models.ModerationRequest, imageData string) {
	if s.archive == nil {
		return
	}

	raw, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		s.log.Warn().Str("request_id", req.ID).Msg("image payload is not valid base64, skipping archive")
		return
	}

	if err := s.archive.Put(ctx, req.ContentHash, raw, ""); err != nil {
		s.log.Error().
			Err(err).
			Str("request_id", req.ID).
			Msg("archive image failed")
	}
}
