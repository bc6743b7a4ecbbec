package service

import (
	"context"
	"errors"
	"fmt"

	"crm-platform-backend/internal/database/models"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/guard"
	"crm-platform-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountService handles business logic for accounts
type AccountService struct {
	repo      repository.AccountRepositoryInterface
	validator *validator.Validate
}

// NewAccountService creates a new account service
func NewAccountService(repo repository.AccountRepositoryInterface, validator *validator.Validate) *AccountService {
	return &AccountService{
		repo:      repo,
		validator: validator,
	}
}

// CreateAccountRequest represents the request to create an account
type CreateAccountRequest struct {
	Name     string     `json:"name" validate:"required,min=1,max=200"`
	Website  string     `json:"website,omitempty" validate:"omitempty,max=200"`
	Status   string     `json:"status,omitempty"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// UpdateAccountRequest represents the request to update an account
type UpdateAccountRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Website string `json:"website,omitempty" validate:"omitempty,max=200"`
	Status  string `json:"status,omitempty"`
}

// SetParentRequest represents the request to repoint an account's parent
type SetParentRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// AccountResponse represents the response for account operations
type AccountResponse struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	Name      string     `json:"name"`
	Website   string     `json:"website"`
	Status    string     `json:"status"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

// AccountListResponse represents a paginated list of accounts
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// AccountStatsResponse represents account counts grouped by status
type AccountStatsResponse struct {
	Total    int64            `json:"total"`
	ByStatus []guard.GroupRow `json:"by_status"`
}

// Create creates a new account under the current tenant
func (s *AccountService) Create(ctx context.Context, req *CreateAccountRequest) (*AccountResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	status := models.AccountStatus(req.Status)
	if req.Status == "" {
		status = models.AccountStatusProspect
	}
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("status", "unknown account status")
	}

	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing account by name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrAccountExists
	}

	account := &models.Account{
		Name:     req.Name,
		Website:  req.Website,
		Status:   status,
		ParentID: req.ParentID,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if apperrors.IsReferential(err) || apperrors.IsTenantMismatch(err) || errors.Is(err, apperrors.ErrSelfReference) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return s.toResponse(account), nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return s.toResponse(account), nil
}

// GetAll retrieves the current tenant's accounts with pagination
func (s *AccountService) GetAll(ctx context.Context, page, pageSize int) (*AccountListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	accounts, total, err := s.repo.GetAll(ctx, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	responses := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		responses[i] = *s.toResponse(&account)
	}

	return &AccountListResponse{
		Accounts: responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update updates an account
func (s *AccountService) Update(ctx context.Context, id uuid.UUID, req *UpdateAccountRequest) (*AccountResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account.Name = req.Name
	account.Website = req.Website
	if req.Status != "" {
		status := models.AccountStatus(req.Status)
		if !status.IsValid() {
			return nil, apperrors.NewValidationError("status", "unknown account status")
		}
		account.Status = status
	}

	if err := s.repo.Update(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return s.toResponse(account), nil
}

// SetParent repoints an account's parent
func (s *AccountService) SetParent(ctx context.Context, id uuid.UUID, req *SetParentRequest) error {
	err := s.repo.SetParent(ctx, id, req.ParentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAccountNotFound
		}
		if apperrors.IsReferential(err) || errors.Is(err, apperrors.ErrSelfReference) {
			return err
		}
		return fmt.Errorf("failed to set account parent: %w", err)
	}
	return nil
}

// Delete deletes an account
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAccountNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// Stats returns the current tenant's account counts grouped by status
func (s *AccountService) Stats(ctx context.Context) (*AccountStatsResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts by status: %w", err)
	}

	return &AccountStatsResponse{Total: total, ByStatus: byStatus}, nil
}

// toResponse converts an account model to response
func (s *AccountService) toResponse(account *models.Account) *AccountResponse {
	return &AccountResponse{
		ID:        account.ID,
		TenantID:  account.TenantID,
		Name:      account.Name,
		Website:   account.Website,
		Status:    string(account.Status),
		ParentID:  account.ParentID,
		CreatedAt: account.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: account.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
