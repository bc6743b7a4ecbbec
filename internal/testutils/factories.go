package testutils

import (
	"fmt"
	"time"

	"crm-platform-backend/internal/database/models"

	"github.com/google/uuid"
)

// TenantFactory provides methods to create test Tenant data
type TenantFactory struct{}

// NewTenantFactory creates a new TenantFactory
func NewTenantFactory() *TenantFactory {
	return &TenantFactory{}
}

// Create creates a test Tenant with default values
func (f *TenantFactory) Create() *models.Tenant {
	id := uuid.New()
	return &models.Tenant{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Slug:   "tenant-" + id.String()[:8],
		Name:   "Test Tenant",
		Plan:   models.TenantPlanFree,
		Status: models.TenantStatusActive,
	}
}

// WithSlug sets a custom slug for the tenant
func (f *TenantFactory) WithSlug(slug string) *models.Tenant {
	tenant := f.Create()
	tenant.Slug = slug
	tenant.Name = slug
	return tenant
}

// Suspended creates a suspended tenant
func (f *TenantFactory) Suspended() *models.Tenant {
	tenant := f.Create()
	tenant.Status = models.TenantStatusSuspended
	return tenant
}

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with default values
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Email:    fmt.Sprintf("user-%s@test.com", id.String()[:8]),
		FullName: "Test User",
		IsActive: true,
	}
}

// WithEmail sets a custom email for the user
func (f *UserFactory) WithEmail(email string) *models.User {
	user := f.Create()
	user.Email = email
	return user
}

// MembershipFactory provides methods to create test TenantMembership data
type MembershipFactory struct{}

// NewMembershipFactory creates a new MembershipFactory
func NewMembershipFactory() *MembershipFactory {
	return &MembershipFactory{}
}

// Create creates a membership binding user to tenant with the member role
func (f *MembershipFactory) Create(tenantID, userID uuid.UUID) *models.TenantMembership {
	return &models.TenantMembership{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		TenantID: tenantID,
		UserID:   userID,
		Role:     models.MembershipRoleMember,
	}
}

// WithRole sets a custom role for the membership
func (f *MembershipFactory) WithRole(tenantID, userID uuid.UUID, role models.MembershipRole) *models.TenantMembership {
	membership := f.Create(tenantID, userID)
	membership.Role = role
	return membership
}

// AccountFactory provides methods to create test Account data
type AccountFactory struct{}

// NewAccountFactory creates a new AccountFactory
func NewAccountFactory() *AccountFactory {
	return &AccountFactory{}
}

// Create creates a test Account with default values. The tenant id is left
// empty so guarded creates can stamp it from the context.
func (f *AccountFactory) Create() *models.Account {
	id := uuid.New()
	return &models.Account{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:    "Account " + id.String()[:8],
		Website: "https://example.test",
		Status:  models.AccountStatusProspect,
	}
}

// WithName sets a custom name for the account
func (f *AccountFactory) WithName(name string) *models.Account {
	account := f.Create()
	account.Name = name
	return account
}

// WithTenant stamps an explicit tenant id, for rows inserted directly
func (f *AccountFactory) WithTenant(tenantID uuid.UUID) *models.Account {
	account := f.Create()
	account.TenantID = tenantID
	return account
}

// WithParent sets the parent account id
func (f *AccountFactory) WithParent(parentID uuid.UUID) *models.Account {
	account := f.Create()
	account.ParentID = &parentID
	return account
}

// ContactFactory provides methods to create test Contact data
type ContactFactory struct{}

// NewContactFactory creates a new ContactFactory
func NewContactFactory() *ContactFactory {
	return &ContactFactory{}
}

// Create creates a test Contact with default values
func (f *ContactFactory) Create() *models.Contact {
	id := uuid.New()
	return &models.Contact{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		FirstName: "Test",
		LastName:  "Contact",
		Email:     fmt.Sprintf("contact-%s@test.com", id.String()[:8]),
		Phone:     "+1-555-0123",
	}
}

// WithAccount sets the account id for the contact
func (f *ContactFactory) WithAccount(accountID uuid.UUID) *models.Contact {
	contact := f.Create()
	contact.AccountID = &accountID
	return contact
}

// WithTenant stamps an explicit tenant id, for rows inserted directly
func (f *ContactFactory) WithTenant(tenantID uuid.UUID) *models.Contact {
	contact := f.Create()
	contact.TenantID = tenantID
	return contact
}

// AttachmentFactory provides methods to create test Attachment data
type AttachmentFactory struct{}

// NewAttachmentFactory creates a new AttachmentFactory
func NewAttachmentFactory() *AttachmentFactory {
	return &AttachmentFactory{}
}

// Create creates a test Attachment owned by uploaderID with no relations
func (f *AttachmentFactory) Create(uploaderID uuid.UUID) *models.Attachment {
	id := uuid.New()
	return &models.Attachment{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		FileName:    "file-" + id.String()[:8] + ".pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
		UploaderID:  uploaderID,
	}
}

// WithAccount sets the account relation
func (f *AttachmentFactory) WithAccount(uploaderID, accountID uuid.UUID) *models.Attachment {
	attachment := f.Create(uploaderID)
	attachment.AccountID = &accountID
	return attachment
}

// WithContact sets the contact relation
func (f *AttachmentFactory) WithContact(uploaderID, contactID uuid.UUID) *models.Attachment {
	attachment := f.Create(uploaderID)
	attachment.ContactID = &contactID
	return attachment
}
