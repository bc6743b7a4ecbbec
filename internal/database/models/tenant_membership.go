package models

import "github.com/google/uuid"

// TenantMembership records who may act as whom inside a tenant. The session
// layer must only establish a tenant context for a user holding an active
// membership in that tenant.
type TenantMembership struct {
	BaseModel
	TenantID uuid.UUID      `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_tenant_user"`
	UserID   uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_tenant_user"`
	Role     MembershipRole `json:"role" gorm:"not null;size:20;default:'member'"`

	// Relationships
	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName returns the table name for TenantMembership
func (TenantMembership) TableName() string {
	return "tenant_memberships"
}
