package service

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// TenantServiceInterface defines the interface for tenant service operations
type TenantServiceInterface interface {
	Create(req *CreateTenantRequest) (*TenantResponse, error)
	GetByID(id uuid.UUID) (*TenantResponse, error)
	GetBySlug(slug string) (*TenantResponse, error)
	AddMember(tenantID uuid.UUID, req *AddMemberRequest) (*MemberResponse, error)
	GetMembers(tenantID uuid.UUID, page, pageSize int) (*MemberListResponse, error)
	RemoveMember(tenantID, userID uuid.UUID) error
}

// AccountServiceInterface defines the interface for account service operations
type AccountServiceInterface interface {
	Create(ctx context.Context, req *CreateAccountRequest) (*AccountResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AccountResponse, error)
	GetAll(ctx context.Context, page, pageSize int) (*AccountListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateAccountRequest) (*AccountResponse, error)
	SetParent(ctx context.Context, id uuid.UUID, req *SetParentRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*AccountStatsResponse, error)
}

// ContactServiceInterface defines the interface for contact service operations
type ContactServiceInterface interface {
	Create(ctx context.Context, req *CreateContactRequest) (*ContactResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ContactResponse, error)
	GetAll(ctx context.Context, accountID *uuid.UUID, page, pageSize int) (*ContactListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateContactRequest) (*ContactResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AttachmentServiceInterface defines the interface for attachment service operations
type AttachmentServiceInterface interface {
	Create(ctx context.Context, uploaderID uuid.UUID, req *CreateAttachmentRequest) (*AttachmentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID, uploaderID *uuid.UUID) (*AttachmentResponse, error)
	GetAll(ctx context.Context, uploaderID *uuid.UUID, page, pageSize int) (*AttachmentListResponse, error)
	Delete(ctx context.Context, id uuid.UUID, uploaderID *uuid.UUID) error
}
