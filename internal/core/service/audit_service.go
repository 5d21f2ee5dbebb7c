package service

import (
	"context"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

const defaultAuditLimit = 100

// AuditService reads the audit trail. Writes go through ports.AuditRecorder.
type AuditService struct {
	repo ports.AuditRepository
}

func NewAuditService(repo ports.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List returns the newest events first.
func (s *AuditService) List(ctx context.Context, filter ports.ListAuditFilter) ([]*domain.AuditEvent, error) {
	if filter.Limit <= 0 || filter.Limit > defaultAuditLimit*5 {
		filter.Limit = defaultAuditLimit
	}
	return s.repo.List(ctx, filter)
}
