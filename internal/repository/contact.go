package repository

import (
	"context"

	"crm-platform-backend/internal/database/models"
	"crm-platform-backend/internal/guard"

	"github.com/google/uuid"
)

// ContactRepository handles guarded database operations for contacts
type ContactRepository struct {
	engine *guard.Engine
}

// NewContactRepository creates a new contact repository
func NewContactRepository(engine *guard.Engine) *ContactRepository {
	return &ContactRepository{engine: engine}
}

// Create creates a new contact under the current tenant. A populated account
// reference must resolve inside the same tenant.
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if contact.AccountID != nil {
		if err := guard.CheckReference[models.Account](ctx, r.engine, *contact.AccountID); err != nil {
			return err
		}
	}
	return guard.Create(ctx, r.engine, contact)
}

// GetByID retrieves a contact by ID
func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	return guard.First[models.Contact](ctx, r.engine, guard.Where("id = ?", id))
}

// GetByEmail retrieves a contact by email within the current tenant
func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (*models.Contact, error) {
	return guard.First[models.Contact](ctx, r.engine, guard.Where("email = ?", email))
}

// GetAll retrieves the current tenant's contacts with pagination, optionally
// narrowed to one account
func (r *ContactRepository) GetAll(ctx context.Context, accountID *uuid.UUID, limit, offset int) ([]models.Contact, int64, error) {
	conds := []guard.Condition{}
	if accountID != nil {
		conds = append(conds, guard.Where("account_id = ?", *accountID))
	}

	total, err := guard.Count[models.Contact](ctx, r.engine, conds...)
	if err != nil {
		return nil, 0, err
	}

	conds = append(conds, guard.OrderBy("last_name"), guard.Limit(limit), guard.Offset(offset))
	contacts, err := guard.Find[models.Contact](ctx, r.engine, conds...)
	if err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// Update updates a contact. Repointing the account reference re-validates it.
func (r *ContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	if contact.AccountID != nil {
		if err := guard.CheckReference[models.Account](ctx, r.engine, *contact.AccountID); err != nil {
			return err
		}
	}
	return guard.Update(ctx, r.engine, contact)
}

// Delete deletes a contact
func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return guard.Delete[models.Contact](ctx, r.engine, id)
}

// Count counts the current tenant's contacts
func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	return guard.Count[models.Contact](ctx, r.engine)
}
