package dto

import (
	"encoding/json"
	"time"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// AuditQueryParams defines query parameters for reading the audit trail.
type AuditQueryParams struct {
	EntityType *string `form:"entityType"`
	EntityID   *string `form:"entityID"`
	Limit      int     `form:"limit,default=100"`
}

// AuditLogResponse defines the data returned for one audit event.
type AuditLogResponse struct {
	AuditID       string          `json:"auditID"`
	Action        string          `json:"action"`
	EntityType    string          `json:"entityType"`
	EntityID      string          `json:"entityID"`
	PreviousState json.RawMessage `json:"previousState,omitempty"`
	NewState      json.RawMessage `json:"newState,omitempty"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ToAuditLogResponses converts audit log entries to response DTOs.
func ToAuditLogResponses(entries []domain.AuditLogEntry) []AuditLogResponse {
	res := make([]AuditLogResponse, len(entries))
	for i, e := range entries {
		res[i] = AuditLogResponse{
			AuditID:       e.AuditID,
			Action:        string(e.Action),
			EntityType:    e.EntityType,
			EntityID:      e.EntityID,
			PreviousState: e.PreviousState,
			NewState:      e.NewState,
			Reason:        e.Reason,
			CreatedAt:     e.CreatedAt,
			CreatedBy:     e.CreatedBy,
		}
	}
	return res
}
