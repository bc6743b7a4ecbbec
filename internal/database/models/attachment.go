package models

import "github.com/google/uuid"

// Attachment has no tenant column of its own. Tenant membership is inferred
// through whichever of its optional relations is populated; rows with no
// relation at all are visible only when the caller filters by uploader.
type Attachment struct {
	BaseModel
	FileName    string `json:"file_name" gorm:"not null;size:255" validate:"required,max=255"`
	ContentType string `json:"content_type" gorm:"size:100" validate:"max=100"`
	SizeBytes   int64  `json:"size_bytes"`

	AccountID *uuid.UUID `json:"account_id" gorm:"type:uuid;index"`
	ContactID *uuid.UUID `json:"contact_id" gorm:"type:uuid;index"`

	UploaderID uuid.UUID `json:"uploader_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Account *Account `json:"account,omitempty" gorm:"foreignKey:AccountID"`
	Contact *Contact `json:"contact,omitempty" gorm:"foreignKey:ContactID"`
}

// TableName returns the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}
