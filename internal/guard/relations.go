package guard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crm-platform-backend/internal/audit"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/tenantctx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckReference verifies that the referenced row of T exists under the
// current tenant. The row is loaded through the guarded engine, so tenant
// scoping applies automatically; an absent row and a row owned by another
// tenant are conflated into one ReferentialError.
func CheckReference[T any, P scopedPtr[T]](ctx context.Context, e *Engine, id uuid.UUID) error {
	if _, err := First[T, P](ctx, e, Where("id = ?", id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewReferentialError(entityName[T]())
		}
		return err
	}
	return nil
}

// CheckParentRef validates a parent pointer before create/update. Pointing
// an entity at itself is rejected with ErrSelfReference, distinct from the
// cross-tenant referential case. Only the depth-1 cycle is guarded; deeper
// hierarchy cycles are not detected.
func CheckParentRef[T any, P scopedPtr[T]](ctx context.Context, e *Engine, selfID, parentID uuid.UUID) error {
	if parentID == selfID {
		return apperrors.ErrSelfReference
	}
	return CheckReference[T, P](ctx, e, parentID)
}

// RelationRef names one optional foreign key on an indirectly-scoped table
// and the tenant-scoped table it points at.
type RelationRef struct {
	Column string // fk column, e.g. "account_id"
	Table  string // referenced table, e.g. "accounts"
}

// IndirectPolicy describes how tenant membership is inferred for an entity
// without its own tenant column: any populated relation must resolve to the
// current tenant, and rows with every relation null are visible only through
// an explicit owner filter.
type IndirectPolicy struct {
	Relations   []RelationRef
	OwnerColumn string // e.g. "uploader_id"
}

// scope builds the effective predicate. ownerID nil means the caller
// supplied no owner filter, which leaves null-relation rows invisible.
func (p IndirectPolicy) scope(tenantID uuid.UUID, ownerID *uuid.UUID) Condition {
	return func(tx *gorm.DB) *gorm.DB {
		clauses := make([]string, 0, len(p.Relations)+1)
		args := make([]interface{}, 0, len(p.Relations)+1)
		for _, rel := range p.Relations {
			clauses = append(clauses, fmt.Sprintf("%s IN (SELECT id FROM %s WHERE tenant_id = ?)", rel.Column, rel.Table))
			args = append(args, tenantID)
		}
		if ownerID != nil {
			nulls := make([]string, 0, len(p.Relations))
			for _, rel := range p.Relations {
				nulls = append(nulls, rel.Column+" IS NULL")
			}
			clauses = append(clauses, "("+strings.Join(nulls, " AND ")+" AND "+p.OwnerColumn+" = ?)")
			args = append(args, *ownerID)
		}
		return tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// indirectReader applies the indirect predicate, or no predicate for an
// explicitly unscoped system call.
func (e *Engine) indirectReader(ctx context.Context, policy IndirectPolicy, ownerID *uuid.UUID) (*gorm.DB, error) {
	tx := e.db.WithContext(ctx)
	if tenantctx.IsSystem(ctx) {
		return tx, nil
	}
	tenantID, err := tenantctx.Current(ctx)
	if err != nil {
		return nil, err
	}
	return policy.scope(tenantID, ownerID)(tx), nil
}

// FindIndirect lists indirectly-scoped rows visible under the current tenant
// per the policy.
func FindIndirect[T any, P entityPtr[T]](ctx context.Context, e *Engine, policy IndirectPolicy, ownerID *uuid.UUID, conds ...Condition) ([]T, error) {
	tx, err := e.indirectReader(ctx, policy, ownerID)
	if err != nil {
		return nil, err
	}
	for _, c := range conds {
		tx = c(tx)
	}
	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FirstIndirect returns one indirectly-scoped row visible under the current
// tenant per the policy.
func FirstIndirect[T any, P entityPtr[T]](ctx context.Context, e *Engine, policy IndirectPolicy, ownerID *uuid.UUID, conds ...Condition) (*T, error) {
	tx, err := e.indirectReader(ctx, policy, ownerID)
	if err != nil {
		return nil, err
	}
	for _, c := range conds {
		tx = c(tx)
	}
	var row T
	if err := tx.First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CountIndirect counts indirectly-scoped rows visible under the current
// tenant per the policy.
func CountIndirect[T any, P entityPtr[T]](ctx context.Context, e *Engine, policy IndirectPolicy, ownerID *uuid.UUID, conds ...Condition) (int64, error) {
	tx, err := e.indirectReader(ctx, policy, ownerID)
	if err != nil {
		return 0, err
	}
	var m T
	tx = tx.Model(&m)
	for _, c := range conds {
		tx = c(tx)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CreateIndirect inserts an indirectly-scoped row. Callers are responsible
// for validating populated relations with CheckReference first; this only
// requires an established tenant context and records the mutation.
func CreateIndirect[T any, P entityPtr[T]](ctx context.Context, e *Engine, entity P) error {
	if _, err := tenantctx.Current(ctx); err != nil {
		return err
	}
	if err := e.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return err
	}
	e.record(ctx, audit.ActionCreate, entityName[T](), entity.GetID(), nil, entity)
	return nil
}

// DeleteIndirect removes an indirectly-scoped row under the same visibility
// predicate as reads: VERIFY through the policy scope, then EXECUTE, both in
// one transaction.
func DeleteIndirect[T any, P entityPtr[T]](ctx context.Context, e *Engine, policy IndirectPolicy, ownerID *uuid.UUID, id uuid.UUID) error {
	tenantID, err := tenantctx.Current(ctx)
	if err != nil {
		return err
	}

	var before T
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := policy.scope(tenantID, ownerID)(tx)
		if err := scoped.First(&before, "id = ?", id).Error; err != nil {
			return err
		}
		var m T
		return policy.scope(tenantID, ownerID)(tx).Delete(&m, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	e.record(ctx, audit.ActionDelete, entityName[T](), id, &before, nil)
	return nil
}
