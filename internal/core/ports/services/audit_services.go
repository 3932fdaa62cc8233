package services

import (
	"context"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// AuditSvcFacade is the append-only audit trail. Every component appends an
// event on every state transition, including failed posting attempts, so
// silent failures stay discoverable.
type AuditSvcFacade interface {
	// Record serializes the previous/new snapshots and appends one event.
	// Snapshot arguments may be nil. Audit failures are logged, never
	// propagated: audit must not block the mutation it describes.
	Record(ctx context.Context, action domain.AuditAction, entityType string, entityID string, previous any, next any, reason string, actorID string)

	// Query retrieves events chronologically, optionally scoped to one
	// entity's full change history.
	Query(ctx context.Context, entityType *string, entityID *string, limit int) ([]domain.AuditLogEntry, error)
}
