package models

import (
	"encoding/json"
	"time"
)

// AuditLog is the persisted form of one append-only audit event.
type AuditLog struct {
	AuditID       string          `db:"audit_id"`
	Action        string          `db:"action"`
	EntityType    string          `db:"entity_type"`
	EntityID      string          `db:"entity_id"`
	PreviousState json.RawMessage `db:"previous_state"` // JSONB, nullable
	NewState      json.RawMessage `db:"new_state"`      // JSONB, nullable
	Reason        string          `db:"reason"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}
