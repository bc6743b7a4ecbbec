package models

// User is a global principal. Users are not tenant-scoped; what they may see
// is decided by their memberships.
type User struct {
	BaseModel
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:200" validate:"required,email,max=200"`
	FullName string `json:"full_name" gorm:"size:200" validate:"max=200"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	Memberships []TenantMembership `json:"memberships,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
