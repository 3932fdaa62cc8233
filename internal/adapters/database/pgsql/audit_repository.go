package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	"github.com/vistamar/estate_ledger_app/internal/models"
)

type PgxAuditRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{pool: pool}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// AppendAuditLog writes one audit event. There is deliberately no update or
// delete counterpart.
func (r *PgxAuditRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (audit_id, action, entity_type, entity_id, previous_state, new_state, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		entry.AuditID,
		string(entry.Action),
		entry.EntityType,
		entry.EntityID,
		entry.PreviousState,
		entry.NewState,
		entry.Reason,
		entry.CreatedAt,
		entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit log %s: %w", entry.AuditID, err)
	}
	return nil
}

// QueryAuditLog retrieves events chronologically ascending, optionally scoped
// to one entity type and/or entity.
func (r *PgxAuditRepository) QueryAuditLog(ctx context.Context, entityType *string, entityID *string, limit int) ([]domain.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT audit_id, action, entity_type, entity_id, previous_state, new_state, reason, created_at, created_by
		FROM audit_logs
		WHERE TRUE
	`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if entityType != nil {
		query += fmt.Sprintf(" AND entity_type = %s", arg(*entityType))
	}
	if entityID != nil {
		query += fmt.Sprintf(" AND entity_id = %s", arg(*entityID))
	}
	query += fmt.Sprintf(" ORDER BY created_at, audit_id LIMIT %s;", arg(limit))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	entries := []domain.AuditLogEntry{}
	for rows.Next() {
		var m models.AuditLog
		if err := rows.Scan(
			&m.AuditID,
			&m.Action,
			&m.EntityType,
			&m.EntityID,
			&m.PreviousState,
			&m.NewState,
			&m.Reason,
			&m.CreatedAt,
			&m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, domain.AuditLogEntry{
			AuditID:       m.AuditID,
			Action:        domain.AuditAction(m.Action),
			EntityType:    m.EntityType,
			EntityID:      m.EntityID,
			PreviousState: m.PreviousState,
			NewState:      m.NewState,
			Reason:        m.Reason,
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log rows: %w", err)
	}
	return entries, nil
}
