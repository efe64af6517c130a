package service

import (
	"context"

	"github.com/fundwell/credit-engine/internal/domain"
	"github.com/fundwell/credit-engine/internal/repository"
	customError "github.com/fundwell/credit-engine/pkg/errors"
)

// AuditService is the read surface over the append-only event trail.
// Writes go through the repository inside the other services' transactions,
// so the event lands in the same commit as the mutation it records.
type AuditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// Query returns events reverse-chronologically. Restartable via offset;
// never mutates state.
func (s *AuditService) Query(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEvent, error) {
	events, err := s.auditRepo.Query(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return events, nil
}
