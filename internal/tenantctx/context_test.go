package tenantctx

import (
	"context"
	"testing"

	apperrors "crm-platform-backend/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCurrentWithoutBinding(t *testing.T) {
	id, err := Current(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrNoTenantContext)
	assert.Equal(t, uuid.Nil, id)
}

func TestWithTenantBindsCurrent(t *testing.T) {
	tenantID := uuid.New()
	ctx := WithTenant(context.Background(), tenantID)

	current, err := Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, tenantID, current)
	assert.True(t, HasTenant(ctx))
}

func TestWithTenantNilIDIsNotABinding(t *testing.T) {
	ctx := WithTenant(context.Background(), uuid.Nil)

	_, err := Current(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoTenantContext)
	assert.False(t, HasTenant(ctx))
}

func TestNestedWithTenantOverridesInnerScopeOnly(t *testing.T) {
	outerID := uuid.New()
	innerID := uuid.New()

	outer := WithTenant(context.Background(), outerID)
	inner := WithTenant(outer, innerID)

	current, err := Current(inner)
	require.NoError(t, err)
	assert.Equal(t, innerID, current)

	// The outer context is untouched by the derived binding.
	current, err = Current(outer)
	require.NoError(t, err)
	assert.Equal(t, outerID, current)
}

func TestRunAsBindingEndsWithOp(t *testing.T) {
	tenantID := uuid.New()
	base := context.Background()

	var seen uuid.UUID
	err := RunAs(base, tenantID, func(ctx context.Context) error {
		var err error
		seen, err = Current(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, tenantID, seen)

	// The caller's context never gains a binding.
	_, err = Current(base)
	assert.ErrorIs(t, err, apperrors.ErrNoTenantContext)
}

func TestRunAsReturnsOpError(t *testing.T) {
	wantErr := apperrors.ErrAccountNotFound
	err := RunAs(context.Background(), uuid.New(), func(ctx context.Context) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestTenantID(t *testing.T) {
	id, ok := TenantID(context.Background())
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)

	tenantID := uuid.New()
	id, ok = TenantID(WithTenant(context.Background(), tenantID))
	assert.True(t, ok)
	assert.Equal(t, tenantID, id)
}

func TestAsSystemIsExplicit(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsSystem(ctx))

	// A missing tenant binding never implies system scope.
	_, err := Current(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoTenantContext)

	sys := AsSystem(ctx)
	assert.True(t, IsSystem(sys))
	assert.False(t, IsSystem(ctx))
}

func TestActor(t *testing.T) {
	assert.Empty(t, Actor(context.Background()))

	ctx := WithActor(context.Background(), "user-123")
	assert.Equal(t, "user-123", Actor(ctx))
}

func TestConcurrentBindingsAreIsolated(t *testing.T) {
	tenantA := uuid.New()
	tenantB := uuid.New()

	g, base := errgroup.WithContext(context.Background())
	for i := 0; i < 50; i++ {
		want := tenantA
		if i%2 == 1 {
			want = tenantB
		}
		g.Go(func() error {
			ctx := WithTenant(base, want)
			for j := 0; j < 100; j++ {
				got, err := Current(ctx)
				if err != nil {
					return err
				}
				if got != want {
					return assert.AnError
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
