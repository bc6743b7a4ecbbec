package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides common fields for all models with UUID primary keys
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets the UUID if not already set
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return nil
}

// GetID returns the primary key
func (base *BaseModel) GetID() uuid.UUID {
	return base.ID
}

// Entity is any persisted record with a UUID primary key
type Entity interface {
	GetID() uuid.UUID
}

// TenantScoped is any persisted record carrying an immutable tenant column.
// All access to implementations must go through the guard engine.
type TenantScoped interface {
	Entity
	GetTenantID() uuid.UUID
	SetTenantID(uuid.UUID)
}
