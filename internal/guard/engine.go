// Package guard is the only sanctioned entry point for tenant-scoped
// entities. Every read is rewritten with the current tenant's predicate,
// every write verifies ownership before executing, and every create stamps
// the tenant from the operation context. The underlying database handle is
// unexported, so ordinary application code has no route to an unguarded
// primitive.
package guard

import (
	"context"
	"reflect"
	"regexp"
	"strings"

	"crm-platform-backend/internal/audit"
	"crm-platform-backend/internal/database/models"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/tenantctx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Op is the closed set of guarded operation kinds. Guard and audit logic
// switch over these instead of inspecting query shapes at runtime.
type Op int

const (
	OpFind Op = iota
	OpFirst
	OpCreate
	OpUpdate
	OpDelete
	OpCount
	OpGroupCount
)

// String returns the operation name
func (o Op) String() string {
	switch o {
	case OpFind:
		return "find"
	case OpFirst:
		return "first"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpCount:
		return "count"
	case OpGroupCount:
		return "group-count"
	}
	return "unknown"
}

// scopedPtr constrains P to a pointer to a tenant-scoped model.
type scopedPtr[T any] interface {
	*T
	models.TenantScoped
}

// entityPtr constrains P to a pointer to any persisted model, including
// indirectly-scoped ones without a tenant column.
type entityPtr[T any] interface {
	*T
	models.Entity
}

// Condition narrows a guarded query. Conditions compose with, and can never
// widen, the injected tenant predicate.
type Condition func(tx *gorm.DB) *gorm.DB

// Where adds a filter condition
func Where(query interface{}, args ...interface{}) Condition {
	return func(tx *gorm.DB) *gorm.DB { return tx.Where(query, args...) }
}

// OrderBy adds an ordering clause
func OrderBy(expr string) Condition {
	return func(tx *gorm.DB) *gorm.DB { return tx.Order(expr) }
}

// Limit caps the number of returned rows
func Limit(n int) Condition {
	return func(tx *gorm.DB) *gorm.DB { return tx.Limit(n) }
}

// Offset skips the first n rows
func Offset(n int) Condition {
	return func(tx *gorm.DB) *gorm.DB { return tx.Offset(n) }
}

// Preload eagerly loads an association
func Preload(assoc string) Condition {
	return func(tx *gorm.DB) *gorm.DB { return tx.Preload(assoc) }
}

// Engine rewrites and executes guarded operations. Construct one per process
// and hand it to repositories; they never see the raw database handle.
type Engine struct {
	db  *gorm.DB
	rec *audit.Recorder
}

// NewEngine creates a guard engine. rec may be nil to disable audit.
func NewEngine(db *gorm.DB, rec *audit.Recorder) *Engine {
	return &Engine{db: db, rec: rec}
}

// reader returns a query handle with the tenant predicate applied, or an
// unscoped one when the context carries the explicit system flag. A missing
// tenant binding fails fast; there is no silent no-filter fallback.
func (e *Engine) reader(ctx context.Context) (*gorm.DB, error) {
	tx := e.db.WithContext(ctx)
	if tenantctx.IsSystem(ctx) {
		return tx, nil
	}
	tenantID, err := tenantctx.Current(ctx)
	if err != nil {
		return nil, err
	}
	return tx.Where("tenant_id = ?", tenantID), nil
}

// Find returns all rows of T visible under the current tenant, narrowed by
// the given conditions.
func Find[T any, P scopedPtr[T]](ctx context.Context, e *Engine, conds ...Condition) ([]T, error) {
	tx, err := e.reader(ctx)
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

// First returns the first row of T visible under the current tenant matching
// the conditions. A row that exists under another tenant reports
// gorm.ErrRecordNotFound exactly like an absent one.
func First[T any, P scopedPtr[T]](ctx context.Context, e *Engine, conds ...Condition) (*T, error) {
	tx, err := e.reader(ctx)
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

// Count counts rows of T visible under the current tenant.
func Count[T any, P scopedPtr[T]](ctx context.Context, e *Engine, conds ...Condition) (int64, error) {
	tx, err := e.reader(ctx)
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

// GroupRow is one bucket of a guarded group-by count.
type GroupRow struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

var identPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// GroupCount counts rows of T visible under the current tenant grouped by
// column. The column name must be a plain identifier; it is interpolated
// into the select list.
func GroupCount[T any, P scopedPtr[T]](ctx context.Context, e *Engine, column string, conds ...Condition) ([]GroupRow, error) {
	if !identPattern.MatchString(column) {
		return nil, apperrors.NewValidationError("column", "invalid group-by column")
	}
	tx, err := e.reader(ctx)
	if err != nil {
		return nil, err
	}
	var m T
	tx = tx.Model(&m)
	for _, c := range conds {
		tx = c(tx)
	}
	var rows []GroupRow
	if err := tx.Select(column + " AS key, COUNT(*) AS count").Group(column).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a row of T under the current tenant. The tenant id is
// always stamped from the context; a caller-supplied foreign tenant id is
// rejected with a TenantMismatchError, never silently corrected.
func Create[T any, P scopedPtr[T]](ctx context.Context, e *Engine, entity P) error {
	tenantID, err := tenantctx.Current(ctx)
	if err != nil {
		return err
	}
	if supplied := entity.GetTenantID(); supplied != uuid.Nil && supplied != tenantID {
		return apperrors.NewTenantMismatchError(entityName[T]())
	}
	entity.SetTenantID(tenantID)
	// Associations are never written through the parent row; child rows
	// would bypass the guard and miss their tenant stamp.
	if err := e.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return err
	}
	e.record(ctx, audit.ActionCreate, entityName[T](), entity.GetID(), nil, entity)
	return nil
}

// Update saves a full row of T. VERIFY and EXECUTE run in one transaction:
// the target must already exist under the current tenant, otherwise the
// operation reports gorm.ErrRecordNotFound and affects zero rows. The tenant
// column is omitted from the assignment list; it is immutable post-creation.
func Update[T any, P scopedPtr[T]](ctx context.Context, e *Engine, entity P) error {
	tenantID, err := tenantctx.Current(ctx)
	if err != nil {
		return err
	}
	if supplied := entity.GetTenantID(); supplied != uuid.Nil && supplied != tenantID {
		return apperrors.NewTenantMismatchError(entityName[T]())
	}

	var before T
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// VERIFY: absent and foreign-tenant rows are indistinguishable.
		if err := tx.Where("tenant_id = ?", tenantID).First(&before, "id = ?", entity.GetID()).Error; err != nil {
			return err
		}
		entity.SetTenantID(tenantID)
		// EXECUTE. Associations are omitted for the same reason as in Create.
		return tx.Omit("tenant_id", "created_at", clause.Associations).Save(entity).Error
	})
	if err != nil {
		return err
	}
	e.record(ctx, audit.ActionUpdate, entityName[T](), entity.GetID(), &before, entity)
	return nil
}

// UpdateFields applies a partial update to the row with the given id. The
// tenant column may not appear in the field map. VERIFY and EXECUTE run in
// one transaction, as with Update.
func UpdateFields[T any, P scopedPtr[T]](ctx context.Context, e *Engine, id uuid.UUID, fields map[string]interface{}) error {
	tenantID, err := tenantctx.Current(ctx)
	if err != nil {
		return err
	}
	if _, ok := fields["tenant_id"]; ok {
		return apperrors.NewTenantMismatchError(entityName[T]())
	}

	var before, after T
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).First(&before, "id = ?", id).Error; err != nil {
			return err
		}
		var m T
		if err := tx.Model(&m).Where("id = ? AND tenant_id = ?", id, tenantID).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ?", tenantID).First(&after, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	e.record(ctx, audit.ActionUpdate, entityName[T](), id, &before, &after)
	return nil
}

// Delete removes the row with the given id. VERIFY and EXECUTE run in one
// transaction; a row under another tenant reports gorm.ErrRecordNotFound and
// nothing is deleted.
func Delete[T any, P scopedPtr[T]](ctx context.Context, e *Engine, id uuid.UUID) error {
	tenantID, err := tenantctx.Current(ctx)
	if err != nil {
		return err
	}

	var before T
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).First(&before, "id = ?", id).Error; err != nil {
			return err
		}
		var m T
		return tx.Where("tenant_id = ?", tenantID).Delete(&m, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	e.record(ctx, audit.ActionDelete, entityName[T](), id, &before, nil)
	return nil
}

func (e *Engine) record(ctx context.Context, action audit.Action, entityType string, id uuid.UUID, before, after interface{}) {
	if e.rec == nil {
		return
	}
	tenantID, _ := tenantctx.TenantID(ctx)
	e.rec.Record(ctx, audit.Entry{
		TenantID:   tenantID,
		Actor:      tenantctx.Actor(ctx),
		Action:     action,
		EntityType: entityType,
		EntityID:   id,
		Before:     before,
		After:      after,
	})
}

// entityName returns the lowercase struct name of T, used for audit records
// and error labels.
func entityName[T any]() string {
	var m T
	return strings.ToLower(reflect.TypeOf(m).Name())
}
