package models

// TenantPlan represents the subscription plan of a tenant
type TenantPlan string

const (
	TenantPlanFree       TenantPlan = "free"
	TenantPlanTeam       TenantPlan = "team"
	TenantPlanEnterprise TenantPlan = "enterprise"
)

// TenantStatus represents the lifecycle status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusClosed    TenantStatus = "closed"
)

// MembershipRole represents what a user may do inside a tenant
type MembershipRole string

const (
	MembershipRoleOwner  MembershipRole = "owner"
	MembershipRoleAdmin  MembershipRole = "admin"
	MembershipRoleMember MembershipRole = "member"
)

// AccountStatus represents the lifecycle status of a CRM account
type AccountStatus string

const (
	AccountStatusProspect AccountStatus = "prospect"
	AccountStatusCustomer AccountStatus = "customer"
	AccountStatusChurned  AccountStatus = "churned"
)

// IsValid checks whether the account status is one of the known values
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusProspect, AccountStatusCustomer, AccountStatusChurned:
		return true
	}
	return false
}
