package repositories

import (
	"context"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// AuditAppender defines the append-only write operation for the audit trail.
type AuditAppender interface {
	// AppendAuditLog writes one audit event. Events are never updated or
	// deleted once written.
	AppendAuditLog(ctx context.Context, entry domain.AuditLogEntry) error
}

// AuditReader defines read operations for the audit trail.
type AuditReader interface {
	// QueryAuditLog retrieves events chronologically ascending, optionally
	// scoped to one entity type and/or one entity's full change history.
	QueryAuditLog(ctx context.Context, entityType *string, entityID *string, limit int) ([]domain.AuditLogEntry, error)
}

// AuditRepositoryFacade combines the audit trail repository interfaces.
type AuditRepositoryFacade interface {
	AuditAppender
	AuditReader
}
