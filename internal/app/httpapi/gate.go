package httpapi

import (
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/adpulse/gateway/internal/domain"
	"github.com/adpulse/gateway/internal/infra/ratelimit"
)

// Requirements is the static declaration of what the gate must check
// before a route's handler runs. The gate evaluates only the declared
// steps; a route with the zero value bypasses the gate entirely.
type Requirements struct {
	RequiresAuth  bool
	RequiresAdmin bool
	RateLimited   bool
}

// Gate orchestrates admission for every inbound request: extract the
// bearer credential, verify it, classify the principal's role, and
// rate-limit privileged writes. Any failure short-circuits with a
// classified decision; the gate never retries.
type Gate struct {
	verifier domain.TokenVerifier
	limiter  *ratelimit.FixedWindowLimiter
	clock    func() time.Time
	logger   *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithClock overrides the gate's time source.
func WithClock(clock func() time.Time) GateOption {
	return func(g *Gate) {
		g.clock = clock
	}
}

// NewGate creates a request gate.
func NewGate(verifier domain.TokenVerifier, limiter *ratelimit.FixedWindowLimiter, logger *slog.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		verifier: verifier,
		limiter:  limiter,
		clock:    time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Admit runs the declared checks for one request. The operation name keys
// the rate-limit counter and shows up in audit logs. A non-nil error means
// the admission infrastructure itself failed and the request must be
// answered with an internal error, not a rejection.
func (g *Gate) Admit(r *http.Request, operation string, reqs Requirements) (domain.Decision, error) {
	if !reqs.RequiresAuth {
		return domain.Authorized(nil), nil
	}

	token, ok := bearerToken(r)
	if !ok {
		// Malformed or absent header: rejected before the identity
		// provider is ever contacted.
		return domain.Unauthenticated(), nil
	}

	principal, err := g.verifier.Verify(r.Context(), token)
	if err != nil {
		g.logger.Debug("token verification failed", "operation", operation, "error", err)
		return domain.Unauthenticated(), nil
	}

	if reqs.RequiresAdmin && !principal.IsAdmin() {
		return domain.Forbidden(), nil
	}

	if reqs.RateLimited {
		decision, err := g.limiter.Admit(r.Context(), principal.ID, operation, g.clock())
		if err != nil {
			return domain.Decision{}, err
		}
		if !decision.Allowed {
			return domain.RateLimited(retryAfterSeconds(decision.RetryAfter)), nil
		}
	}

	return domain.Authorized(principal), nil
}

// bearerToken extracts the credential from an "Authorization: Bearer x"
// header. Anything else is treated as absent.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// retryAfterSeconds rounds up so a rejected caller never retries early.
func retryAfterSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
