package models

// Tenant is the root of isolation. Every tenant-scoped row points at exactly
// one tenant, and no query may cross that boundary.
type Tenant struct {
	BaseModel
	Slug   string       `json:"slug" gorm:"uniqueIndex;not null;size:63" validate:"required,min=1,max=63"`
	Name   string       `json:"name" gorm:"not null;size:200" validate:"required,max=200"`
	Plan   TenantPlan   `json:"plan" gorm:"not null;size:20;default:'free'"`
	Status TenantStatus `json:"status" gorm:"not null;size:20;default:'active'"`

	// Relationships
	Memberships []TenantMembership `json:"memberships,omitempty" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}
