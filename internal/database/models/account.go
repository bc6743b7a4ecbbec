package models

import "github.com/google/uuid"

// Account is a tenant-scoped CRM account. Name is unique per tenant, with
// tenant_id leading the composite index so the same human-facing name may
// exist in different tenants. ParentID models the account hierarchy and must
// reference an account of the same tenant; self-reference is rejected by the
// relationship validator.
type Account struct {
	BaseModel
	TenantID uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_accounts_tenant_name,priority:1"`

	Name    string        `json:"name" gorm:"not null;size:200;uniqueIndex:idx_accounts_tenant_name,priority:2" validate:"required,min=1,max=200"`
	Website string        `json:"website" gorm:"size:200" validate:"omitempty,max=200"`
	Status  AccountStatus `json:"status" gorm:"not null;size:20;default:'prospect'"`

	ParentID *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	Parent   *Account   `json:"parent,omitempty" gorm:"foreignKey:ParentID"`

	// Relationships
	Contacts []Contact `json:"contacts,omitempty" gorm:"foreignKey:AccountID"`
}

// TableName returns the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// GetTenantID returns the owning tenant
func (a *Account) GetTenantID() uuid.UUID { return a.TenantID }

// SetTenantID stamps the owning tenant
func (a *Account) SetTenantID(id uuid.UUID) { a.TenantID = id }
