package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"moderator/api/internal/queue"
	"moderator/api/internal/repository"
)

const orphanBatchSize = 100

type OrphanStore interface {
	FindOrphanedNotifications(ctx context.Context, limit int) ([]repository.OrphanedNotification, error)
}

type DispatchQueue interface {
	Enqueue(ctx context.Context, task queue.DispatchTask) error
}

// Reconciler periodically re-drives notifications for requests that
// completed with a flagged result but never got a notification log — the
// gap left when the process dies between the two commit units, or when the
// enqueue itself failed. Re-driving is at-least-once; a duplicate log entry
// in the append-only trail is acceptable.
type Reconciler struct {
	cron     *cron.Cron
	schedule string
	store    OrphanStore
	dispatch DispatchQueue
	log      zerolog.Logger
}

func NewReconciler(schedule string, store OrphanStore, dispatch DispatchQueue, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		cron:     cron.New(cron.WithSeconds()),
		schedule: schedule,
		store:    store,
		dispatch: dispatch,
		log:      log,
	}
}

func (r *Reconciler) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, r.run); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop halts scheduling and waits for an in-flight run to finish, up to a
// short grace period.
func (r *Reconciler) Stop() {
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		r.log.Warn().Msg("reconciler stop timed out")
	}
}

func (r *Reconciler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orphans, err := r.store.FindOrphanedNotifications(ctx, orphanBatchSize)
	if err != nil {
		r.log.Error().Err(err).Msg("find orphaned notifications failed")
		return
	}
	if len(orphans) == 0 {
		return
	}

	r.log.Info().Int("count", len(orphans)).Msg("re-driving orphaned notifications")

	for _, orphan := range orphans {
		task := queue.DispatchTask{
			RequestID:      orphan.RequestID,
			Email:          orphan.Email,
			Classification: orphan.Classification,
		}
		if err := r.dispatch.Enqueue(ctx, task); err != nil {
			r.log.Error().
				Err(err).
				Str("request_id", orphan.RequestID).
				Msg("re-enqueue dispatch failed")
		}
	}
}
