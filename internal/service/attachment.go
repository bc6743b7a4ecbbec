package service

import (
	"context"
	"errors"
	"fmt"

	"crm-platform-backend/internal/database/models"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttachmentService handles business logic for attachments
type AttachmentService struct {
	repo      repository.AttachmentRepositoryInterface
	validator *validator.Validate
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(repo repository.AttachmentRepositoryInterface, validator *validator.Validate) *AttachmentService {
	return &AttachmentService{
		repo:      repo,
		validator: validator,
	}
}

// CreateAttachmentRequest represents the request to create an attachment
type CreateAttachmentRequest struct {
	FileName    string     `json:"file_name" validate:"required,max=255"`
	ContentType string     `json:"content_type,omitempty" validate:"max=100"`
	SizeBytes   int64      `json:"size_bytes,omitempty" validate:"gte=0"`
	AccountID   *uuid.UUID `json:"account_id,omitempty"`
	ContactID   *uuid.UUID `json:"contact_id,omitempty"`
}

// AttachmentResponse represents the response for attachment operations
type AttachmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	AccountID   *uuid.UUID `json:"account_id,omitempty"`
	ContactID   *uuid.UUID `json:"contact_id,omitempty"`
	UploaderID  uuid.UUID  `json:"uploader_id"`
	CreatedAt   string     `json:"created_at"`
}

// AttachmentListResponse represents a paginated list of attachments
type AttachmentListResponse struct {
	Attachments []AttachmentResponse `json:"attachments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
}

// Create creates a new attachment owned by uploaderID. Relation-less
// attachments remain visible only to their uploader.
func (s *AttachmentService) Create(ctx context.Context, uploaderID uuid.UUID, req *CreateAttachmentRequest) (*AttachmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if uploaderID == uuid.Nil {
		return nil, apperrors.NewValidationError("uploader_id", "uploader is required")
	}

	attachment := &models.Attachment{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		AccountID:   req.AccountID,
		ContactID:   req.ContactID,
		UploaderID:  uploaderID,
	}

	if err := s.repo.Create(ctx, attachment); err != nil {
		if apperrors.IsReferential(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}

	return s.toResponse(attachment), nil
}

// GetByID retrieves an attachment visible under the current tenant
func (s *AttachmentService) GetByID(ctx context.Context, id uuid.UUID, uploaderID *uuid.UUID) (*AttachmentResponse, error) {
	attachment, err := s.repo.GetByID(ctx, id, uploaderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	return s.toResponse(attachment), nil
}

// GetAll retrieves attachments visible under the current tenant with
// pagination
func (s *AttachmentService) GetAll(ctx context.Context, uploaderID *uuid.UUID, page, pageSize int) (*AttachmentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	attachments, total, err := s.repo.GetAll(ctx, uploaderID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachments: %w", err)
	}

	responses := make([]AttachmentResponse, len(attachments))
	for i, attachment := range attachments {
		responses[i] = *s.toResponse(&attachment)
	}

	return &AttachmentListResponse{
		Attachments: responses,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

// Delete deletes an attachment
func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID, uploaderID *uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, uploaderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

// toResponse converts an attachment model to response
func (s *AttachmentService) toResponse(attachment *models.Attachment) *AttachmentResponse {
	return &AttachmentResponse{
		ID:          attachment.ID,
		FileName:    attachment.FileName,
		ContentType: attachment.ContentType,
		SizeBytes:   attachment.SizeBytes,
		AccountID:   attachment.AccountID,
		ContactID:   attachment.ContactID,
		UploaderID:  attachment.UploaderID,
		CreatedAt:   attachment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
