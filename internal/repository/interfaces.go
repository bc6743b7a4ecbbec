package repository

import (
	"context"

	"crm-platform-backend/internal/database/models"
	"crm-platform-backend/internal/guard"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// TenantRepositoryInterface defines the interface for tenant repository operations
type TenantRepositoryInterface interface {
	Create(tenant *models.Tenant) error
	GetByID(id uuid.UUID) (*models.Tenant, error)
	GetBySlug(slug string) (*models.Tenant, error)
	GetAll(limit, offset int) ([]models.Tenant, int64, error)
	Update(tenant *models.Tenant) error
	Delete(id uuid.UUID) error
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uuid.UUID) error
}

// MembershipRepositoryInterface defines the interface for tenant membership repository operations
type MembershipRepositoryInterface interface {
	Create(membership *models.TenantMembership) error
	GetByTenantAndUser(tenantID, userID uuid.UUID) (*models.TenantMembership, error)
	GetByUser(userID uuid.UUID) ([]models.TenantMembership, error)
	GetByTenant(tenantID uuid.UUID, limit, offset int) ([]models.TenantMembership, int64, error)
	Delete(id uuid.UUID) error
}

// AccountRepositoryInterface defines the interface for guarded account repository operations
type AccountRepositoryInterface interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByName(ctx context.Context, name string) (*models.Account, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.Account, int64, error)
	GetChildren(ctx context.Context, parentID uuid.UUID) ([]models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]guard.GroupRow, error)
}

// ContactRepositoryInterface defines the interface for guarded contact repository operations
type ContactRepositoryInterface interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	GetByEmail(ctx context.Context, email string) (*models.Contact, error)
	GetAll(ctx context.Context, accountID *uuid.UUID, limit, offset int) ([]models.Contact, int64, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// AttachmentRepositoryInterface defines the interface for guarded attachment repository operations
type AttachmentRepositoryInterface interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID, uploaderID *uuid.UUID) (*models.Attachment, error)
	GetAll(ctx context.Context, uploaderID *uuid.UUID, limit, offset int) ([]models.Attachment, int64, error)
	Delete(ctx context.Context, id uuid.UUID, uploaderID *uuid.UUID) error
	Count(ctx context.Context, uploaderID *uuid.UUID) (int64, error)
}
