package service

import (
	"errors"
	"fmt"

	"crm-platform-backend/internal/database/models"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantService handles business logic for tenants and their memberships.
// These tables are global control-plane state, so the service talks to plain
// repositories rather than the guarded engine.
type TenantService struct {
	tenantRepo     repository.TenantRepositoryInterface
	userRepo       repository.UserRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
	validator      *validator.Validate
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo repository.TenantRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	membershipRepo repository.MembershipRepositoryInterface,
	validator *validator.Validate,
) *TenantService {
	return &TenantService{
		tenantRepo:     tenantRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		validator:      validator,
	}
}

// CreateTenantRequest represents the request to create a tenant
type CreateTenantRequest struct {
	Slug       string `json:"slug" validate:"required,min=1,max=63,lowercase,excludesall= "`
	Name       string `json:"name" validate:"required,max=200"`
	Plan       string `json:"plan,omitempty"`
	OwnerEmail string `json:"owner_email" validate:"required,email,max=200"`
	OwnerName  string `json:"owner_name,omitempty" validate:"max=200"`
}

// AddMemberRequest represents the request to add a user to a tenant
type AddMemberRequest struct {
	Email    string `json:"email" validate:"required,email,max=200"`
	FullName string `json:"full_name,omitempty" validate:"max=200"`
	Role     string `json:"role,omitempty"`
}

// TenantResponse represents the response for tenant operations
type TenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"created_at"`
}

// MemberResponse represents one membership row in a tenant
type MemberResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
}

// MemberListResponse represents a paginated list of tenant members
type MemberListResponse struct {
	Members  []MemberResponse `json:"members"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// Create provisions a tenant together with its owner user and membership
func (s *TenantService) Create(req *CreateTenantRequest) (*TenantResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	plan := models.TenantPlan(req.Plan)
	if req.Plan == "" {
		plan = models.TenantPlanFree
	}
	switch plan {
	case models.TenantPlanFree, models.TenantPlanTeam, models.TenantPlanEnterprise:
	default:
		return nil, apperrors.NewValidationError("plan", "unknown tenant plan")
	}

	existing, err := s.tenantRepo.GetBySlug(req.Slug)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing tenant: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrTenantExists
	}

	tenant := &models.Tenant{
		Slug:   req.Slug,
		Name:   req.Name,
		Plan:   plan,
		Status: models.TenantStatusActive,
	}
	if err := s.tenantRepo.Create(tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	owner, err := s.findOrCreateUser(req.OwnerEmail, req.OwnerName)
	if err != nil {
		return nil, err
	}

	membership := &models.TenantMembership{
		TenantID: tenant.ID,
		UserID:   owner.ID,
		Role:     models.MembershipRoleOwner,
	}
	if err := s.membershipRepo.Create(membership); err != nil {
		return nil, fmt.Errorf("failed to create owner membership: %w", err)
	}

	return s.toResponse(tenant), nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return s.toResponse(tenant), nil
}

// GetBySlug retrieves a tenant by slug
func (s *TenantService) GetBySlug(slug string) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return s.toResponse(tenant), nil
}

// AddMember adds a user to a tenant, creating the user on first sight
func (s *TenantService) AddMember(tenantID uuid.UUID, req *AddMemberRequest) (*MemberResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	role := models.MembershipRole(req.Role)
	if req.Role == "" {
		role = models.MembershipRoleMember
	}
	switch role {
	case models.MembershipRoleOwner, models.MembershipRoleAdmin, models.MembershipRoleMember:
	default:
		return nil, apperrors.NewValidationError("role", "unknown membership role")
	}

	tenant, err := s.tenantRepo.GetByID(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	user, err := s.findOrCreateUser(req.Email, req.FullName)
	if err != nil {
		return nil, err
	}

	existing, err := s.membershipRepo.GetByTenantAndUser(tenant.ID, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrMembershipExists
	}

	membership := &models.TenantMembership{
		TenantID: tenant.ID,
		UserID:   user.ID,
		Role:     role,
	}
	if err := s.membershipRepo.Create(membership); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	return &MemberResponse{
		ID:       membership.ID,
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(membership.Role),
	}, nil
}

// GetMembers retrieves a tenant's members with pagination
func (s *TenantService) GetMembers(tenantID uuid.UUID, page, pageSize int) (*MemberListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	memberships, total, err := s.membershipRepo.GetByTenant(tenantID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}

	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = MemberResponse{
			ID:     m.ID,
			UserID: m.UserID,
			Role:   string(m.Role),
		}
		if m.User != nil {
			members[i].Email = m.User.Email
			members[i].FullName = m.User.FullName
		}
	}

	return &MemberListResponse{
		Members:  members,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// RemoveMember removes a membership from a tenant
func (s *TenantService) RemoveMember(tenantID, userID uuid.UUID) error {
	membership, err := s.membershipRepo.GetByTenantAndUser(tenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMembershipNotFound
		}
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if err := s.membershipRepo.Delete(membership.ID); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	return nil
}

func (s *TenantService) findOrCreateUser(email, fullName string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		Email:    email,
		FullName: fullName,
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// toResponse converts a tenant model to response
func (s *TenantService) toResponse(tenant *models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:        tenant.ID,
		Slug:      tenant.Slug,
		Name:      tenant.Name,
		Plan:      string(tenant.Plan),
		Status:    string(tenant.Status),
		CreatedAt: tenant.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
