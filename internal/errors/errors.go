package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found. A row that
// exists but belongs to another tenant reports the same error, so callers
// cannot probe for foreign data.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "in tenant"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ReferentialError represents a foreign-key target that is not visible under
// the current tenant. Absent and wrong-tenant targets are deliberately
// conflated.
type ReferentialError struct {
	Entity string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("referenced %s not found in this tenant", e.Entity)
}

// Is enables errors.Is() comparison for ReferentialError
func (e *ReferentialError) Is(target error) bool {
	t, ok := target.(*ReferentialError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// TenantMismatchError represents a caller-supplied tenant id that differs
// from the established context. The attempt is rejected rather than silently
// corrected so misuse stays visible in logs and audit.
type TenantMismatchError struct {
	Entity string
}

func (e *TenantMismatchError) Error() string {
	return fmt.Sprintf("tenant id on %s does not match the current tenant", e.Entity)
}

// Is enables errors.Is() comparison for TenantMismatchError
func (e *TenantMismatchError) Is(target error) bool {
	t, ok := target.(*TenantMismatchError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrTenantNotFound     = &NotFoundError{Entity: "tenant"}
	ErrUserNotFound       = &NotFoundError{Entity: "user"}
	ErrMembershipNotFound = &NotFoundError{Entity: "tenant membership"}
	ErrAccountNotFound    = &NotFoundError{Entity: "account"}
	ErrContactNotFound    = &NotFoundError{Entity: "contact"}
	ErrAttachmentNotFound = &NotFoundError{Entity: "attachment"}
)

// Already Exists Errors
var (
	ErrTenantExists     = &AlreadyExistsError{Entity: "tenant", Context: "with this slug"}
	ErrUserExists       = &AlreadyExistsError{Entity: "user", Context: "with this email"}
	ErrMembershipExists = &AlreadyExistsError{Entity: "tenant membership", Context: "for this user"}
	ErrAccountExists    = &AlreadyExistsError{Entity: "account", Context: "with this name in the tenant"}
	ErrContactExists    = &AlreadyExistsError{Entity: "contact", Context: "with this email in the tenant"}
)

// Referential Errors
var (
	ErrAccountReference = &ReferentialError{Entity: "account"}
	ErrContactReference = &ReferentialError{Entity: "contact"}
	ErrParentReference  = &ReferentialError{Entity: "parent account"}
)

// Tenant Context Errors
var (
	ErrNoTenantContext = errors.New("no tenant bound to the operation context")
	ErrSelfReference   = errors.New("entity cannot reference itself as parent")
)

// Authentication Errors
var (
	ErrInvalidToken     = &AuthenticationError{Message: "invalid token"}
	ErrTokenExpired     = &AuthenticationError{Message: "token has expired"}
	ErrNotTenantMember  = &AuthorizationError{Message: "user is not a member of this tenant"}
	ErrTenantSuspended  = &AuthorizationError{Message: "tenant is suspended"}
	ErrMissingTenantHdr = &ValidationError{Message: "tenant header is required"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsReferential checks if an error is a ReferentialError
func IsReferential(err error) bool {
	var refErr *ReferentialError
	return errors.As(err, &refErr)
}

// IsTenantMismatch checks if an error is a TenantMismatchError
func IsTenantMismatch(err error) bool {
	var mismatchErr *TenantMismatchError
	return errors.As(err, &mismatchErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewReferentialError creates a new ReferentialError for a custom entity
func NewReferentialError(entity string) error {
	return &ReferentialError{Entity: entity}
}

// NewTenantMismatchError creates a new TenantMismatchError for a custom entity
func NewTenantMismatchError(entity string) error {
	return &TenantMismatchError{Entity: entity}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}
