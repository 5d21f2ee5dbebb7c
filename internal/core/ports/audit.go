package ports

import (
	"context"
	"time"

	"github.com/ballotworks/election-api/internal/core/domain"
)

// AuditRecorder accepts audit events without blocking the caller on storage.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// ListAuditFilter carries the query parameters for reading the audit trail.
type ListAuditFilter struct {
	ElectionID string           // optional
	Type       domain.AuditType // optional
	Since      time.Time        // optional
	Limit      int
}

// AuditRepository persists and reads the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	List(ctx context.Context, filter ListAuditFilter) ([]*domain.AuditEvent, error)
}

// AuditService reads the audit trail.
type AuditService interface {
	List(ctx context.Context, filter ListAuditFilter) ([]*domain.AuditEvent, error)
}
