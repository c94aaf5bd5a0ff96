package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moderator/api/internal/models"
)

var ErrRequestNotFound = errors.New("moderation request not found")

type ModerationRepository struct {
	pool *pgxpool.Pool
}

func NewModerationRepository(pool *pgxpool.Pool) *ModerationRepository {
	return &ModerationRepository{pool: pool}
}

func (r *ModerationRepository) CreateRequest(ctx context.Context, req models.ModerationRequest) error {
	const query = `
		INSERT INTO moderation_requests (
			id, email, content_type, content_hash, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		req.ID,
		req.Email,
		req.ContentType,
		req.ContentHash,
		req.Status,
	)
	return err
}

// CompleteRequest stores the classification outcome as one durable unit:
// result insert, summary insert and the pending -> completed transition
// commit together or not at all.
func (r *ModerationRepository) CompleteRequest(ctx context.Context, result models.ModerationResult, summary models.ModerationSummary) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertResult = `
		INSERT INTO moderation_results (
			id, request_id, classification, confidence, reasoning, llm_response, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
	`
	if _, err := tx.Exec(ctx, insertResult,
		result.ID,
		result.RequestID,
		result.Classification,
		result.Confidence,
		result.Reasoning,
		result.LLMResponse,
	); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	const insertSummary = `
		INSERT INTO moderation_summary (
			id, request_id, text, classification, confidence, notification_status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
	`
	if _, err := tx.Exec(ctx, insertSummary,
		summary.ID,
		summary.RequestID,
		summary.Text,
		summary.Classification,
		summary.Confidence,
		summary.NotificationStatus,
	); err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	const updateStatus = `
		UPDATE moderation_requests SET status = $2 WHERE id = $1
	`
	cmd, err := tx.Exec(ctx, updateStatus, result.RequestID, models.RequestStatusCompleted)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}

	return tx.Commit(ctx)
}

// RecordNotification appends the delivery log entry and aligns the summary
// projection in one durable unit. It is the second commit of the pipeline;
// a crash before it leaves the request completed with no log, which the
// reconciler re-drives.
func (r *ModerationRepository) RecordNotification(ctx context.Context, entry models.NotificationLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertLog = `
		INSERT INTO notification_logs (
			id, request_id, channel, status, sent_at
		) VALUES (
			$1, $2, $3, $4, NOW()
		)
	`
	if _, err := tx.Exec(ctx, insertLog,
		entry.ID,
		entry.RequestID,
		entry.Channel,
		entry.Status,
	); err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}

	const updateSummary = `
		UPDATE moderation_summary SET notification_status = $2 WHERE request_id = $1
	`
	if _, err := tx.Exec(ctx, updateSummary, entry.RequestID, entry.Status); err != nil {
		return fmt.Errorf("update summary: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ModerationRepository) GetRequest(ctx context.Context, id string) (models.ModerationRequest, error) {
	const query = `
		SELECT id, email, content_type, content_hash, status, created_at
		FROM moderation_requests WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var req models.ModerationRequest
	if err := row.Scan(
		&req.ID,
		&req.Email,
		&req.ContentType,
		&req.ContentHash,
		&req.Status,
		&req.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ModerationRequest{}, ErrRequestNotFound
		}
		return models.ModerationRequest{}, err
	}
	return req, nil
}

// OrphanedNotification is a completed request whose result requires alerting
// but has no notification log yet. It is the observable gap between the two
// commit units.
type OrphanedNotification struct {
	RequestID      string
	Email          string
	Classification models.Classification
}

func (r *ModerationRepository) FindOrphanedNotifications(ctx context.Context, limit int) ([]OrphanedNotification, error) {
	const query = `
		SELECT req.id, req.email, res.classification
		FROM moderation_requests req
		JOIN moderation_results res ON res.request_id = req.id
		WHERE req.status = 'completed'
		  AND res.classification != 'safe'
		  AND NOT EXISTS (
			SELECT 1 FROM notification_logs nl WHERE nl.request_id = req.id
		  )
		ORDER BY req.created_at
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orphans []OrphanedNotification
	for rows.Next() {
		var o OrphanedNotification
		if err := rows.Scan(&o.RequestID, &o.Email, &o.Classification); err != nil {
			return nil, err
		}
		orphans = append(orphans, o)
	}
	return orphans, rows.Err()
}

func (r *ModerationRepository) ListNotifications(ctx context.Context, requestID string) ([]models.NotificationLog, error) {
	const query = `
		SELECT id, request_id, channel, status, sent_at
		FROM notification_logs
		WHERE request_id = $1
		ORDER BY sent_at
	`

	rows, err := r.pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.NotificationLog
	for rows.Next() {
		var entry models.NotificationLog
		if err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&entry.Channel,
			&entry.Status,
			&entry.SentAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
