package audit

import (
	"context"
	"fmt"

	"crm-platform-backend/internal/database/models"

	"gorm.io/gorm"
)

// GormSink appends audit records to the audit_logs table. This is the
// append-only collaborator path, not tenant-guarded data access: audit rows
// are written by the system on behalf of a tenant, never queried by one.
type GormSink struct {
	db *gorm.DB
}

// NewGormSink creates a sink backed by the given database handle
func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

// Append writes one audit record
func (s *GormSink) Append(ctx context.Context, rec *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}
