package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a guarded mutation. Rows are written
// best-effort by the audit recorder and never read back on the hot path.
type AuditLog struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt  time.Time       `json:"created_at"`
	TenantID   uuid.UUID       `json:"tenant_id" gorm:"type:uuid;index"`
	Actor      string          `json:"actor" gorm:"size:200"`
	Action     string          `json:"action" gorm:"not null;size:20"`
	EntityType string          `json:"entity_type" gorm:"not null;size:63"`
	EntityID   uuid.UUID       `json:"entity_id" gorm:"type:uuid;index"`
	Diff       json.RawMessage `json:"diff" gorm:"type:jsonb"`
	Metadata   json.RawMessage `json:"metadata" gorm:"type:jsonb"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
