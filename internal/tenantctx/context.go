// Package tenantctx carries the active tenant for exactly one logical
// operation (one request, one background job, one test case). The binding
// lives on the operation's context.Context, so concurrent operations cannot
// observe each other's tenant and worker reuse cannot leak a stale binding.
// There is deliberately no package-level mutable state.
package tenantctx

import (
	"context"

	apperrors "crm-platform-backend/internal/errors"

	"github.com/google/uuid"
)

type ctxKey int

const (
	tenantKey ctxKey = iota
	actorKey
	systemKey
)

// WithTenant binds tenantID as the current tenant. A nested WithTenant with
// a different id overrides only the derived scope, which is how cross-tenant
// administrative jobs iterate tenants one at a time.
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantKey, tenantID)
}

// RunAs runs op with tenantID bound as the current tenant and returns op's
// error. The binding ends when op returns.
func RunAs(ctx context.Context, tenantID uuid.UUID, op func(ctx context.Context) error) error {
	return op(WithTenant(ctx, tenantID))
}

// Current returns the active tenant id, or ErrNoTenantContext when no tenant
// is bound. Guarded calls must fail fast on that error instead of falling
// back to an unfiltered query.
func Current(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(tenantKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, apperrors.ErrNoTenantContext
	}
	return id, nil
}

// TenantID returns the active tenant id and whether one is bound.
func TenantID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// HasTenant reports whether a tenant is bound to ctx.
func HasTenant(ctx context.Context) bool {
	_, ok := TenantID(ctx)
	return ok
}

// AsSystem marks ctx for an explicitly unscoped call. System jobs that must
// read across tenants request this affirmatively; it is never implied by a
// missing tenant binding.
func AsSystem(ctx context.Context) context.Context {
	return context.WithValue(ctx, systemKey, true)
}

// IsSystem reports whether ctx carries the explicit unscoped flag.
func IsSystem(ctx context.Context) bool {
	v, ok := ctx.Value(systemKey).(bool)
	return ok && v
}

// WithActor binds the acting principal (audit attribution) to ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// Actor returns the acting principal bound to ctx, or "" when none is set.
func Actor(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey).(string)
	return actor
}
