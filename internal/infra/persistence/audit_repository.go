package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adpulse/gateway/internal/domain"
)

// AuditRepository persists audit events for privileged operations.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a repository on the given pool.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// CreateAuditEvent inserts one audit event.
func (r *AuditRepository) CreateAuditEvent(ctx context.Context, event *domain.AuditEvent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_events (id, principal_id, operation, success, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.PrincipalID, event.Operation, event.Success, event.Error, event.Timestamp)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}
	return nil
}
