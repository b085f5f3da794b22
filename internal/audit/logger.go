package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adpulse/gateway/internal/domain"
)

const defaultBufferSize = 256

// Logger is a non-blocking audit logger. Events are written to structured
// logs synchronously and queued for database persistence; a full queue
// drops the database write rather than blocking the request path.
type Logger struct {
	logger    *slog.Logger
	auditRepo domain.AuditRepository
	events    chan *domain.AuditEvent
	waitGroup sync.WaitGroup
	stopOnce  sync.Once
}

// NewLogger creates an audit logger. The repository may be nil, in which
// case events only reach the structured log.
func NewLogger(logger *slog.Logger, auditRepo domain.AuditRepository) *Logger {
	l := &Logger{
		logger:    logger,
		auditRepo: auditRepo,
		events:    make(chan *domain.AuditEvent, defaultBufferSize),
	}

	l.waitGroup.Add(1)
	go l.worker()

	return l
}

// AuditLog records the outcome of a privileged operation.
func (l *Logger) AuditLog(ctx context.Context, principalID, operation string, success bool, err error) {
	event := &domain.AuditEvent{
		ID:          uuid.New().String(),
		PrincipalID: principalID,
		Operation:   operation,
		Success:     success,
		Timestamp:   time.Now().UTC(),
	}
	if err != nil {
		event.Error = err.Error()
	}

	logAttrs := []slog.Attr{
		slog.String("audit_id", event.ID),
		slog.String("principal_id", principalID),
		slog.String("operation", operation),
		slog.Bool("success", success),
	}
	if err != nil {
		logAttrs = append(logAttrs, slog.String("error", err.Error()))
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "audit_event", logAttrs...)

	if l.auditRepo == nil {
		return
	}

	select {
	case l.events <- event:
	default:
		l.logger.Warn("audit event channel is full, event dropped",
			"operation", operation, "principal_id", principalID)
	}
}

// Close drains the queue and stops the worker.
func (l *Logger) Close() {
	l.stopOnce.Do(func() {
		close(l.events)
	})
	l.waitGroup.Wait()
}

func (l *Logger) worker() {
	defer l.waitGroup.Done()

	for event := range l.events {
		if err := l.auditRepo.CreateAuditEvent(context.Background(), event); err != nil {
			l.logger.Error("failed to store audit event",
				"audit_id", event.ID, "error", err)
		}
	}
}
