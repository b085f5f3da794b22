package domain

// DecisionKind enumerates the terminal outcomes of the request gate.
type DecisionKind int

const (
	DecisionAuthorized DecisionKind = iota
	DecisionUnauthenticated
	DecisionForbidden
	DecisionRateLimited
)

// Decision is the gate's output for a single request. It is constructed
// once and never mutated; the dispatcher consumes it exactly once.
type Decision struct {
	Kind      DecisionKind
	Principal *Principal
	// RetryAfter is the number of seconds until the caller may retry.
	// Only meaningful for DecisionRateLimited.
	RetryAfter int
}

// Authorized admits the request with the given principal attached.
// The principal may be nil for endpoints that declare no auth requirement.
func Authorized(p *Principal) Decision {
	return Decision{Kind: DecisionAuthorized, Principal: p}
}

// Unauthenticated rejects a request with a missing or invalid credential.
func Unauthenticated() Decision {
	return Decision{Kind: DecisionUnauthenticated}
}

// Forbidden rejects an authenticated request with insufficient role.
func Forbidden() Decision {
	return Decision{Kind: DecisionForbidden}
}

// RateLimited rejects an authorized request that is over quota.
func RateLimited(retryAfter int) Decision {
	return Decision{Kind: DecisionRateLimited, RetryAfter: retryAfter}
}
