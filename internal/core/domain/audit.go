package domain

import (
	"encoding/json"
	"time"
)

// AuditAction names the state transition an audit event records.
type AuditAction string

const (
	AuditCreate        AuditAction = "CREATE"
	AuditUpdate        AuditAction = "UPDATE"
	AuditCancel        AuditAction = "CANCEL"
	AuditLock          AuditAction = "LOCK"
	AuditPostFailed    AuditAction = "POST_FAILED"
	AuditPostSkipped   AuditAction = "POST_SKIPPED"
	AuditReconRepair   AuditAction = "RECONCILE_REPAIR"
	AuditReconPost     AuditAction = "RECONCILE_POST"
	AuditSeed          AuditAction = "SEED"
	AuditStatusChange  AuditAction = "STATUS_CHANGE"
	AuditSupersede     AuditAction = "SUPERSEDE"
)

// AuditLogEntry is one append-only record of a state transition. Entries are
// never mutated or deleted once written.
type AuditLogEntry struct {
	AuditID       string          `json:"auditID"` // Primary Key (UUID)
	Action        AuditAction     `json:"action"`
	EntityType    string          `json:"entityType"` // "account", "journal_entry", "document", "fiscal_period"
	EntityID      string          `json:"entityID"`
	PreviousState json.RawMessage `json:"previousState,omitempty"` // Serialized snapshot before the change
	NewState      json.RawMessage `json:"newState,omitempty"`      // Serialized snapshot after the change
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}
