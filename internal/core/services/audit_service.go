package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
)

// auditService appends state transitions to the append-only audit trail.
type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new audit trail service.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// Record appends one audit event. Failures are logged and swallowed: the
// audit trail must never block the mutation it describes.
func (s *auditService) Record(ctx context.Context, action domain.AuditAction, entityType string, entityID string, previous any, next any, reason string, actorID string) {
	entry := domain.AuditLogEntry{
		AuditID:    uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
		CreatedBy:  actorID,
	}
	entry.PreviousState = s.marshalSnapshot(ctx, previous)
	entry.NewState = s.marshalSnapshot(ctx, next)

	if err := s.auditRepo.AppendAuditLog(ctx, entry); err != nil {
		s.LogError(ctx, err, "failed to append audit log",
			"action", string(action), "entity_type", entityType, "entity_id", entityID)
	}
}

// Query retrieves audit events chronologically ascending.
func (s *auditService) Query(ctx context.Context, entityType *string, entityID *string, limit int) ([]domain.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.auditRepo.QueryAuditLog(ctx, entityType, entityID, limit)
}

func (s *auditService) marshalSnapshot(ctx context.Context, snapshot any) json.RawMessage {
	if snapshot == nil {
		return nil
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.LogError(ctx, err, "failed to marshal audit snapshot")
		return nil
	}
	return raw
}
