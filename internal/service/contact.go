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

// ContactService handles business logic for contacts
type ContactService struct {
	repo      repository.ContactRepositoryInterface
	validator *validator.Validate
}

// NewContactService creates a new contact service
func NewContactService(repo repository.ContactRepositoryInterface, validator *validator.Validate) *ContactService {
	return &ContactService{
		repo:      repo,
		validator: validator,
	}
}

// CreateContactRequest represents the request to create a contact
type CreateContactRequest struct {
	FirstName string     `json:"first_name,omitempty" validate:"max=100"`
	LastName  string     `json:"last_name" validate:"required,max=100"`
	Email     string     `json:"email" validate:"required,email,max=200"`
	Phone     string     `json:"phone,omitempty" validate:"omitempty,max=40"`
	AccountID *uuid.UUID `json:"account_id,omitempty"`
}

// UpdateContactRequest represents the request to update a contact
type UpdateContactRequest struct {
	FirstName string     `json:"first_name,omitempty" validate:"max=100"`
	LastName  string     `json:"last_name" validate:"required,max=100"`
	Phone     string     `json:"phone,omitempty" validate:"omitempty,max=40"`
	AccountID *uuid.UUID `json:"account_id,omitempty"`
}

// ContactResponse represents the response for contact operations
type ContactResponse struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	AccountID *uuid.UUID `json:"account_id,omitempty"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

// ContactListResponse represents a paginated list of contacts
type ContactListResponse struct {
	Contacts []ContactResponse `json:"contacts"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// Create creates a new contact under the current tenant
func (s *ContactService) Create(ctx context.Context, req *CreateContactRequest) (*ContactResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing contact by email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrContactExists
	}

	contact := &models.Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		AccountID: req.AccountID,
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		if apperrors.IsReferential(err) || apperrors.IsTenantMismatch(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return s.toResponse(contact), nil
}

// GetByID retrieves a contact by ID
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return s.toResponse(contact), nil
}

// GetAll retrieves the current tenant's contacts with pagination, optionally
// narrowed to one account
func (s *ContactService) GetAll(ctx context.Context, accountID *uuid.UUID, page, pageSize int) (*ContactListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	contacts, total, err := s.repo.GetAll(ctx, accountID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}

	responses := make([]ContactResponse, len(contacts))
	for i, contact := range contacts {
		responses[i] = *s.toResponse(&contact)
	}

	return &ContactListResponse{
		Contacts: responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update updates a contact
func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req *UpdateContactRequest) (*ContactResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	contact.FirstName = req.FirstName
	contact.LastName = req.LastName
	contact.Phone = req.Phone
	contact.AccountID = req.AccountID

	if err := s.repo.Update(ctx, contact); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		if apperrors.IsReferential(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return s.toResponse(contact), nil
}

// Delete deletes a contact
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrContactNotFound
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

// toResponse converts a contact model to response
func (s *ContactService) toResponse(contact *models.Contact) *ContactResponse {
	return &ContactResponse{
		ID:        contact.ID,
		TenantID:  contact.TenantID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		AccountID: contact.AccountID,
		CreatedAt: contact.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: contact.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
