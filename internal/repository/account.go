package repository

import (
	"context"

	"crm-platform-backend/internal/database/models"
	"crm-platform-backend/internal/guard"

	"github.com/google/uuid"
)

// AccountRepository handles guarded database operations for accounts. Every
// method goes through the guard engine; there is no raw database handle here.
type AccountRepository struct {
	engine *guard.Engine
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(engine *guard.Engine) *AccountRepository {
	return &AccountRepository{engine: engine}
}

// Create creates a new account under the current tenant
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ParentID != nil {
		if err := guard.CheckParentRef[models.Account](ctx, r.engine, account.ID, *account.ParentID); err != nil {
			return err
		}
	}
	return guard.Create(ctx, r.engine, account)
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return guard.First[models.Account](ctx, r.engine, guard.Where("id = ?", id))
}

// GetByName retrieves an account by name within the current tenant
func (r *AccountRepository) GetByName(ctx context.Context, name string) (*models.Account, error) {
	return guard.First[models.Account](ctx, r.engine, guard.Where("name = ?", name))
}

// GetAll retrieves all accounts of the current tenant with pagination
func (r *AccountRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Account, int64, error) {
	total, err := guard.Count[models.Account](ctx, r.engine)
	if err != nil {
		return nil, 0, err
	}

	accounts, err := guard.Find[models.Account](ctx, r.engine,
		guard.OrderBy("name"), guard.Limit(limit), guard.Offset(offset))
	if err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// GetChildren retrieves the direct children of an account
func (r *AccountRepository) GetChildren(ctx context.Context, parentID uuid.UUID) ([]models.Account, error) {
	return guard.Find[models.Account](ctx, r.engine, guard.Where("parent_id = ?", parentID))
}

// Update updates an account
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	if account.ParentID != nil {
		if err := guard.CheckParentRef[models.Account](ctx, r.engine, account.ID, *account.ParentID); err != nil {
			return err
		}
	}
	return guard.Update(ctx, r.engine, account)
}

// SetParent repoints an account's parent after validating the reference.
// A nil parentID clears the parent.
func (r *AccountRepository) SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	if parentID != nil {
		if err := guard.CheckParentRef[models.Account](ctx, r.engine, id, *parentID); err != nil {
			return err
		}
	}
	return guard.UpdateFields[models.Account](ctx, r.engine, id, map[string]interface{}{"parent_id": parentID})
}

// Delete deletes an account
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return guard.Delete[models.Account](ctx, r.engine, id)
}

// Count counts the current tenant's accounts
func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	return guard.Count[models.Account](ctx, r.engine)
}

// CountByStatus counts the current tenant's accounts grouped by status
func (r *AccountRepository) CountByStatus(ctx context.Context) ([]guard.GroupRow, error) {
	return guard.GroupCount[models.Account](ctx, r.engine, "status")
}
