package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/adpulse/gateway/internal/domain"
	"github.com/adpulse/gateway/pkg/cache"
)

const (
	summaryCacheKey = "usage_summary"
	summaryCacheTTL = 15 * time.Minute
	recomputeBudget = 30 * time.Second
)

// AnalyticsService defines the business logic behind the analytics endpoints.
type AnalyticsService interface {
	Usage(ctx context.Context, q domain.UsageQuery) ([]domain.UsageRow, error)
	Feedback(ctx context.Context, limit int) ([]domain.FeedbackRow, error)
	SavePreferences(ctx context.Context, p domain.Preferences) error
	RefreshSummary(ctx context.Context) (*domain.UsageSummary, error)
	CachedSummary(ctx context.Context) (*domain.UsageSummary, bool)
}

type analyticsService struct {
	repo   domain.AnalyticsRepository
	cache  cache.Store[string, *domain.UsageSummary]
	logger *slog.Logger
}

// NewAnalyticsService creates the analytics service.
func NewAnalyticsService(repo domain.AnalyticsRepository, summaryCache cache.Store[string, *domain.UsageSummary], logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		cache:  summaryCache,
		logger: logger,
	}
}

func (s *analyticsService) Usage(ctx context.Context, q domain.UsageQuery) ([]domain.UsageRow, error) {
	return s.repo.ListUsage(ctx, q)
}

func (s *analyticsService) Feedback(ctx context.Context, limit int) ([]domain.FeedbackRow, error) {
	return s.repo.ListFeedback(ctx, limit)
}

// SavePreferences upserts the caller's preferences and kicks a detached
// summary recompute. The background task carries its own error logging
// and can never affect the response to the primary request.
func (s *analyticsService) SavePreferences(ctx context.Context, p domain.Preferences) error {
	if err := s.repo.UpsertPreferences(ctx, p); err != nil {
		return err
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("summary recompute panicked", "panic", r)
			}
		}()

		// Detached from the request context: the response has already
		// been sent by the time this runs.
		taskCtx, cancel := context.WithTimeout(context.Background(), recomputeBudget)
		defer cancel()

		if _, err := s.RefreshSummary(taskCtx); err != nil {
			s.logger.Error("background summary recompute failed", "error", err, "user_id", p.UserID)
		}
	}()

	return nil
}

// RefreshSummary recomputes the usage summary from the database and
// replaces the cached copy.
func (s *analyticsService) RefreshSummary(ctx context.Context) (*domain.UsageSummary, error) {
	summary, err := s.repo.ComputeUsageSummary(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, summaryCacheKey, summary, summaryCacheTTL)
	return summary, nil
}

// CachedSummary returns the cached usage summary, if present.
func (s *analyticsService) CachedSummary(ctx context.Context) (*domain.UsageSummary, bool) {
	return s.cache.Get(ctx, summaryCacheKey)
}
