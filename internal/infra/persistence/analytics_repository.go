package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adpulse/gateway/internal/domain"
	pkgerrors "github.com/adpulse/gateway/pkg/errors"
)

const defaultQueryLimit = 100

// AnalyticsRepository is the pgx-backed implementation of the analytics
// data layer.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository creates a repository on the given pool.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// ListUsage returns usage rows, optionally filtered by platform, newest
// period first.
func (r *AnalyticsRepository) ListUsage(ctx context.Context, q domain.UsageQuery) ([]domain.UsageRow, error) {
	limit := q.Limit
	if limit <= 0 || limit > defaultQueryLimit {
		limit = defaultQueryLimit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT platform, period, generations, approvals
		FROM usage_stats
		WHERE ($1 = '' OR platform = $1)
		ORDER BY period DESC
		LIMIT $2`, q.Platform, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing usage: %v", pkgerrors.ErrExternal, err)
	}
	defer rows.Close()

	var result []domain.UsageRow
	for rows.Next() {
		var row domain.UsageRow
		if err := rows.Scan(&row.Platform, &row.Period, &row.Generations, &row.Approvals); err != nil {
			return nil, fmt.Errorf("%w: scanning usage row: %v", pkgerrors.ErrExternal, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading usage rows: %v", pkgerrors.ErrExternal, err)
	}

	return result, nil
}

// ListFeedback returns the most recent feedback rows.
func (r *AnalyticsRepository) ListFeedback(ctx context.Context, limit int) ([]domain.FeedbackRow, error) {
	if limit <= 0 || limit > defaultQueryLimit {
		limit = defaultQueryLimit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, rating, COALESCE(comment, ''), created_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing feedback: %v", pkgerrors.ErrExternal, err)
	}
	defer rows.Close()

	var result []domain.FeedbackRow
	for rows.Next() {
		var row domain.FeedbackRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Rating, &row.Comment, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning feedback row: %v", pkgerrors.ErrExternal, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading feedback rows: %v", pkgerrors.ErrExternal, err)
	}

	return result, nil
}

// UpsertPreferences inserts or replaces the caller's preferences row.
func (r *AnalyticsRepository) UpsertPreferences(ctx context.Context, p domain.Preferences) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO preferences (user_id, platforms, tone, auto_publish, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			platforms = EXCLUDED.platforms,
			tone = EXCLUDED.tone,
			auto_publish = EXCLUDED.auto_publish,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.Platforms, p.Tone, p.AutoPublish, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: upserting preferences: %v", pkgerrors.ErrExternal, err)
	}
	return nil
}

// ComputeUsageSummary aggregates usage counts per platform.
func (r *AnalyticsRepository) ComputeUsageSummary(ctx context.Context) (*domain.UsageSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT platform, COALESCE(SUM(generations), 0)
		FROM usage_stats
		GROUP BY platform`)
	if err != nil {
		return nil, fmt.Errorf("%w: computing usage summary: %v", pkgerrors.ErrExternal, err)
	}
	defer rows.Close()

	summary := &domain.UsageSummary{
		GeneratedAt: time.Now().UTC(),
		ByPlatform:  make(map[string]int),
	}
	for rows.Next() {
		var platform string
		var generations int
		if err := rows.Scan(&platform, &generations); err != nil {
			return nil, fmt.Errorf("%w: scanning summary row: %v", pkgerrors.ErrExternal, err)
		}
		summary.ByPlatform[platform] = generations
		summary.TotalGenerations += generations
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading summary rows: %v", pkgerrors.ErrExternal, err)
	}

	return summary, nil
}

// Ping reports database reachability for the health endpoint.
func (r *AnalyticsRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
