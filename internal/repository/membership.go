package repository

import (
	"crm-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipRepository handles database operations for tenant memberships.
// The session layer uses it to verify that a principal belongs to a tenant
// before establishing a context for that tenant.
type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create creates a new membership
func (r *MembershipRepository) Create(membership *models.TenantMembership) error {
	return r.db.Create(membership).Error
}

// GetByTenantAndUser retrieves the membership of a user in a tenant
func (r *MembershipRepository) GetByTenantAndUser(tenantID, userID uuid.UUID) (*models.TenantMembership, error) {
	var membership models.TenantMembership
	err := r.db.First(&membership, "tenant_id = ? AND user_id = ?", tenantID, userID).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetByUser retrieves all memberships of a user with their tenants
func (r *MembershipRepository) GetByUser(userID uuid.UUID) ([]models.TenantMembership, error) {
	var memberships []models.TenantMembership
	err := r.db.Preload("Tenant").Find(&memberships, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// GetByTenant retrieves all memberships of a tenant with pagination
func (r *MembershipRepository) GetByTenant(tenantID uuid.UUID, limit, offset int) ([]models.TenantMembership, int64, error) {
	var memberships []models.TenantMembership
	var total int64

	if err := r.db.Model(&models.TenantMembership{}).Where("tenant_id = ?", tenantID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("User").Where("tenant_id = ?", tenantID).Limit(limit).Offset(offset).Find(&memberships).Error
	if err != nil {
		return nil, 0, err
	}

	return memberships, total, nil
}

// Delete deletes a membership
func (r *MembershipRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.TenantMembership{}, "id = ?", id).Error
}
