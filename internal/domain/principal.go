package domain

import (
	"context"
	"slices"
)

// RoleAdmin marks a principal as holding elevated privilege.
const RoleAdmin = "admin"

// Principal is the authenticated identity attached to an inbound request.
// It is immutable after construction and lives only for the duration of
// the request that produced it.
type Principal struct {
	ID    string
	Roles []string
}

// HasRole reports whether the principal carries the given role tag.
func (p *Principal) HasRole(role string) bool {
	return p != nil && slices.Contains(p.Roles, role)
}

// IsAdmin reports whether the principal holds the admin role. Absence of
// the tag is not an error; it only restricts which endpoints are reachable.
func (p *Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

type principalContextKey struct{}

// WithPrincipal returns a child context carrying the principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext retrieves the principal attached by the request gate.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	return p, ok
}
