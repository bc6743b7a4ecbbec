package models

import "github.com/google/uuid"

// Contact is a tenant-scoped person attached to at most one account of the
// same tenant. Email is unique per tenant, tenant_id leading.
type Contact struct {
	BaseModel
	TenantID uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_contacts_tenant_email,priority:1"`

	FirstName string `json:"first_name" gorm:"size:100" validate:"max=100"`
	LastName  string `json:"last_name" gorm:"not null;size:100" validate:"required,max=100"`
	Email     string `json:"email" gorm:"not null;size:200;uniqueIndex:idx_contacts_tenant_email,priority:2" validate:"required,email,max=200"`
	Phone     string `json:"phone" gorm:"size:40" validate:"omitempty,max=40"`

	AccountID *uuid.UUID `json:"account_id" gorm:"type:uuid;index"`
	Account   *Account   `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}

// TableName returns the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}

// GetTenantID returns the owning tenant
func (c *Contact) GetTenantID() uuid.UUID { return c.TenantID }

// SetTenantID stamps the owning tenant
func (c *Contact) SetTenantID(id uuid.UUID) { c.TenantID = id }
