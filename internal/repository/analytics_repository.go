package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsSummary aggregates the moderation trail for the analytics
// endpoint. LastRequest is nil when no requests match.
type AnalyticsSummary struct {
	TotalRequests      int64
	InappropriateCount int64
	LastRequest        *time.Time
}

type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// Summary computes the aggregate view, optionally scoped to one submitter.
// An empty email aggregates across all requests.
func (r *AnalyticsRepository) Summary(ctx context.Context, email string) (AnalyticsSummary, error) {
	const query = `
		SELECT
			COUNT(req.id),
			COUNT(res.id) FILTER (WHERE res.classification IN ('toxic', 'spam', 'harassment')),
			MAX(req.created_at)
		FROM moderation_requests req
		LEFT JOIN moderation_results res ON res.request_id = req.id
		WHERE ($1 = '' OR req.email = $1)
	`

	row := r.pool.QueryRow(ctx, query, email)
	var summary AnalyticsSummary
	if err := row.Scan(
		&summary.TotalRequests,
		&summary.InappropriateCount,
		&summary.LastRequest,
	); err != nil {
		return AnalyticsSummary{}, err
	}
	return summary, nil
}
