package domain

import (
	"context"
	"time"
)

// AuditLogger records the outcome of privileged operations.
type AuditLogger interface {
	AuditLog(ctx context.Context, principalID, operation string, success bool, err error)
}

// AuditEvent is one recorded privileged operation.
type AuditEvent struct {
	ID          string
	PrincipalID string
	Operation   string
	Success     bool
	Error       string
	Timestamp   time.Time
}

// AuditRepository persists audit events.
type AuditRepository interface {
	CreateAuditEvent(ctx context.Context, event *AuditEvent) error
}
