package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpulse/gateway/internal/app/httpapi"
	"github.com/adpulse/gateway/internal/domain"
	"github.com/adpulse/gateway/internal/infra/ratelimit"
	"github.com/adpulse/gateway/pkg/testutil"
)

// stubVerifier counts invocations so tests can assert the identity
// provider is never contacted for requests rejected before verification.
type stubVerifier struct {
	mu        sync.Mutex
	calls     int
	principal *domain.Principal
	err       error
}

func (v *stubVerifier) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	v.mu.Lock()
	v.calls++
	v.mu.Unlock()
	if v.err != nil {
		return nil, v.err
	}
	return v.principal, nil
}

func (v *stubVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func testRoutes() []httpapi.Route {
	return []httpapi.Route{
		{Method: http.MethodGet, Pattern: "/healthz", Name: "health", Handler: okHandler},
		{Method: http.MethodGet, Pattern: "/protected", Name: "protected_read",
			Requirements: httpapi.Requirements{RequiresAuth: true}, Handler: okHandler},
		{Method: http.MethodPost, Pattern: "/admin/refresh", Name: "cache_refresh",
			Requirements: httpapi.Requirements{RequiresAuth: true, RequiresAdmin: true, RateLimited: true},
			Handler:      okHandler},
	}
}

func newTestRouter(verifier domain.TokenVerifier, clock *fakeClock) http.Handler {
	limiter := ratelimit.NewFixedWindowLimiter(ratelimit.NewMemoryStore(), time.Minute, 3)
	gate := httpapi.NewGate(verifier, limiter, testutil.DiscardLogger(), httpapi.WithClock(clock.Now))
	return httpapi.NewRouter(gate, []string{"https://studio.example.com"}, testRoutes())
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func doRequest(t *testing.T, router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMissingHeaderRejectedBeforeVerification(t *testing.T) {
	verifier := &stubVerifier{principal: &domain.Principal{ID: "user-1"}}
	router := newTestRouter(verifier, newFakeClock())

	rec := doRequest(t, router, http.MethodGet, "/protected", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec)["error"])
	assert.Zero(t, verifier.callCount(), "identity provider must not be contacted without a credential")
}

func TestMalformedHeaderRejectedBeforeVerification(t *testing.T) {
	verifier := &stubVerifier{principal: &domain.Principal{ID: "user-1"}}
	router := newTestRouter(verifier, newFakeClock())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, verifier.callCount())
}

func TestRejectedTokenReturns401(t *testing.T) {
	verifier := &stubVerifier{err: context.DeadlineExceeded}
	router := newTestRouter(verifier, newFakeClock())

	rec := doRequest(t, router, http.MethodGet, "/protected", "expired-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec)["error"])
	assert.Equal(t, 1, verifier.callCount())
}

func TestNonAdminForbiddenOnAdminRoute(t *testing.T) {
	verifier := &stubVerifier{principal: &domain.Principal{ID: "user-1", Roles: []string{"editor"}}}
	router := newTestRouter(verifier, newFakeClock())

	rec := doRequest(t, router, http.MethodPost, "/admin/refresh", "valid-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeError(t, rec)["error"])
}

func TestAdminAdmitted(t *testing.T) {
	verifier := &stubVerifier{principal: &domain.Principal{ID: "admin-1", Roles: []string{"admin"}}}
	router := newTestRouter(verifier, newFakeClock())

	rec := doRequest(t, router, http.MethodPost, "/admin/refresh", "valid-token")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitSequenceAndReset(t *testing.T) {
	verifier := &stubVerifier{principal: &domain.Principal{ID: "admin-1", Roles: []string{"admin"}}}
	clock := newFakeClock()
	router := newTestRouter(verifier, clock)

	for i := 0; i < 3; i++ {
		rec := doRequest(t, router, http.MethodPost, "/admin/refresh", "valid-token")
		require.Equal(t, http.StatusOK, rec.Code, "call %d within ceiling", i+1)
	}

	rec := doRequest(t, router, http.MethodPost, "/admin/refresh", "valid-token")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "rate_limited", body["error"])
	assert.Greater(t, body["retryAfter"].(float64), float64(0))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	clock.Advance(time.Minute)

	rec = doRequest(t, router, http.MethodPost, "/admin/refresh", "valid-token")
	assert.Equal(t, http.StatusOK, rec.Code, "counter resets after the window elapses")
}

func TestRateLimitIsolatesPrincipals(t *testing.T) {
	verifierA := &domain.Principal{ID: "admin-a", Roles: []string{"admin"}}
	verifierB := &domain.Principal{ID: "admin-b", Roles: []string{"admin"}}
	verifier := &stubVerifier{principal: verifierA}
	clock := newFakeClock()
	router := newTestRouter(verifier, clock)

	for i := 0; i < 4; i++ {
		doRequest(t, router, http.MethodPost, "/admin/refresh", "token-a")
	}

	verifier.mu.Lock()
	verifier.principal = verifierB
	verifier.mu.Unlock()

	rec := doRequest(t, router, http.MethodPost, "/admin/refresh", "token-b")
	assert.Equal(t, http.StatusOK, rec.Code, "admin-b has an independent counter")
}

func TestConcurrentCallsAdmitExactlyCeiling(t *testing.T) {
	verifier := &stubVerifier{principal: &domain.Principal{ID: "admin-1", Roles: []string{"admin"}}}
	router := newTestRouter(verifier, newFakeClock())

	const attempts = 12
	var admitted, rejected atomic.Int64
	var wg sync.WaitGroup

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/admin/refresh", nil)
			req.Header.Set("Authorization", "Bearer valid-token")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			switch rec.Code {
			case http.StatusOK:
				admitted.Add(1)
			case http.StatusTooManyRequests:
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(3), admitted.Load())
	assert.Equal(t, int64(attempts-3), rejected.Load())
}

func TestPublicRouteSkipsGate(t *testing.T) {
	verifier := &stubVerifier{}
	router := newTestRouter(verifier, newFakeClock())

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, verifier.callCount())
}
