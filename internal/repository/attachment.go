package repository

import (
	"context"

	"crm-platform-backend/internal/database/models"
	"crm-platform-backend/internal/guard"

	"github.com/google/uuid"
)

// attachmentPolicy infers tenant membership for attachments, which carry no
// tenant column: through the account relation, the contact relation, or, for
// rows with neither, an explicit uploader filter supplied by the caller.
var attachmentPolicy = guard.IndirectPolicy{
	Relations: []guard.RelationRef{
		{Column: "account_id", Table: "accounts"},
		{Column: "contact_id", Table: "contacts"},
	},
	OwnerColumn: "uploader_id",
}

// AttachmentRepository handles guarded database operations for attachments
type AttachmentRepository struct {
	engine *guard.Engine
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(engine *guard.Engine) *AttachmentRepository {
	return &AttachmentRepository{engine: engine}
}

// Create creates a new attachment. Each populated relation must resolve
// inside the current tenant before anything is written.
func (r *AttachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	if attachment.AccountID != nil {
		if err := guard.CheckReference[models.Account](ctx, r.engine, *attachment.AccountID); err != nil {
			return err
		}
	}
	if attachment.ContactID != nil {
		if err := guard.CheckReference[models.Contact](ctx, r.engine, *attachment.ContactID); err != nil {
			return err
		}
	}
	return guard.CreateIndirect(ctx, r.engine, attachment)
}

// GetByID retrieves an attachment visible under the current tenant.
// uploaderID extends visibility to the caller's own relation-less rows.
func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID, uploaderID *uuid.UUID) (*models.Attachment, error) {
	return guard.FirstIndirect[models.Attachment](ctx, r.engine, attachmentPolicy, uploaderID, guard.Where("id = ?", id))
}

// GetAll retrieves attachments visible under the current tenant with
// pagination
func (r *AttachmentRepository) GetAll(ctx context.Context, uploaderID *uuid.UUID, limit, offset int) ([]models.Attachment, int64, error) {
	total, err := guard.CountIndirect[models.Attachment](ctx, r.engine, attachmentPolicy, uploaderID)
	if err != nil {
		return nil, 0, err
	}

	attachments, err := guard.FindIndirect[models.Attachment](ctx, r.engine, attachmentPolicy, uploaderID,
		guard.OrderBy("created_at DESC"), guard.Limit(limit), guard.Offset(offset))
	if err != nil {
		return nil, 0, err
	}

	return attachments, total, nil
}

// Delete deletes an attachment under the same visibility predicate as reads
func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID, uploaderID *uuid.UUID) error {
	return guard.DeleteIndirect[models.Attachment](ctx, r.engine, attachmentPolicy, uploaderID, id)
}

// Count counts attachments visible under the current tenant
func (r *AttachmentRepository) Count(ctx context.Context, uploaderID *uuid.UUID) (int64, error) {
	return guard.CountIndirect[models.Attachment](ctx, r.engine, attachmentPolicy, uploaderID)
}
