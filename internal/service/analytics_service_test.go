package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpulse/gateway/internal/domain"
	"github.com/adpulse/gateway/internal/service"
	"github.com/adpulse/gateway/pkg/cache"
	"github.com/adpulse/gateway/pkg/testutil"
)

// fakeAnalyticsRepo counts calls so tests can observe background work.
type fakeAnalyticsRepo struct {
	mu         sync.Mutex
	usage      []domain.UsageRow
	summary    *domain.UsageSummary
	summaryErr error
	upsertErr  error
	computed   int
	upserted   []domain.Preferences
}

func (f *fakeAnalyticsRepo) ListUsage(ctx context.Context, q domain.UsageQuery) ([]domain.UsageRow, error) {
	return f.usage, nil
}

func (f *fakeAnalyticsRepo) ListFeedback(ctx context.Context, limit int) ([]domain.FeedbackRow, error) {
	return nil, nil
}

func (f *fakeAnalyticsRepo) UpsertPreferences(ctx context.Context, p domain.Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, p)
	return nil
}

func (f *fakeAnalyticsRepo) ComputeUsageSummary(ctx context.Context) (*domain.UsageSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.computed++
	return f.summary, f.summaryErr
}

func (f *fakeAnalyticsRepo) computeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.computed
}

func newTestService(repo *fakeAnalyticsRepo) (service.AnalyticsService, *cache.Cache[string, *domain.UsageSummary]) {
	summaryCache := cache.New[string, *domain.UsageSummary]()
	svc := service.NewAnalyticsService(repo, summaryCache, testutil.DiscardLogger())
	return svc, summaryCache
}

func TestRefreshSummaryCachesResult(t *testing.T) {
	repo := &fakeAnalyticsRepo{summary: &domain.UsageSummary{TotalGenerations: 120}}
	svc, summaryCache := newTestService(repo)
	defer summaryCache.Close()

	summary, err := svc.RefreshSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, summary.TotalGenerations)

	cached, ok := svc.CachedSummary(context.Background())
	require.True(t, ok)
	assert.Equal(t, 120, cached.TotalGenerations)
}

func TestRefreshSummaryPropagatesRepoError(t *testing.T) {
	repo := &fakeAnalyticsRepo{summaryErr: errors.New("db down")}
	svc, summaryCache := newTestService(repo)
	defer summaryCache.Close()

	_, err := svc.RefreshSummary(context.Background())
	assert.Error(t, err)

	_, ok := svc.CachedSummary(context.Background())
	assert.False(t, ok, "failed refresh must not populate the cache")
}

func TestSavePreferencesTriggersBackgroundRecompute(t *testing.T) {
	repo := &fakeAnalyticsRepo{summary: &domain.UsageSummary{}}
	svc, summaryCache := newTestService(repo)
	defer summaryCache.Close()

	err := svc.SavePreferences(context.Background(), domain.Preferences{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, repo.upserted, 1)

	require.Eventually(t, func() bool {
		return repo.computeCount() == 1
	}, time.Second, 10*time.Millisecond, "recompute runs detached from the request")
}

func TestSavePreferencesFailsBeforeRecompute(t *testing.T) {
	repo := &fakeAnalyticsRepo{upsertErr: errors.New("constraint violation")}
	svc, summaryCache := newTestService(repo)
	defer summaryCache.Close()

	err := svc.SavePreferences(context.Background(), domain.Preferences{UserID: "user-1"})
	assert.Error(t, err)

	// Give any stray goroutine a beat, then confirm nothing recomputed.
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, repo.computeCount())
}

func TestSavePreferencesSwallowsRecomputeError(t *testing.T) {
	repo := &fakeAnalyticsRepo{summaryErr: errors.New("db down")}
	svc, summaryCache := newTestService(repo)
	defer summaryCache.Close()

	err := svc.SavePreferences(context.Background(), domain.Preferences{UserID: "user-1"})
	assert.NoError(t, err, "a failed recompute never surfaces to the caller")

	require.Eventually(t, func() bool {
		return repo.computeCount() == 1
	}, time.Second, 10*time.Millisecond)
}
