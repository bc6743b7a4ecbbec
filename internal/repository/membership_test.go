//go:build integration
// +build integration

package repository

import (
	"testing"

	"crm-platform-backend/internal/database/models"
	"crm-platform-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// MembershipRepositoryTestSuite tests the MembershipRepository
type MembershipRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *MembershipRepository
	tenantRepo    *TenantRepository
	userRepo      *UserRepository
	tenants       *testutils.TenantFactory
	users         *testutils.UserFactory
	memberships   *testutils.MembershipFactory
}

// SetupSuite runs before all tests in the suite
func (suite *MembershipRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewMembershipRepository(suite.baseTestSuite.DB)
	suite.tenantRepo = NewTenantRepository(suite.baseTestSuite.DB)
	suite.userRepo = NewUserRepository(suite.baseTestSuite.DB)
	suite.tenants = testutils.NewTenantFactory()
	suite.users = testutils.NewUserFactory()
	suite.memberships = testutils.NewMembershipFactory()
}

// TearDownSuite runs after all tests in the suite
func (suite *MembershipRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *MembershipRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *MembershipRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *MembershipRepositoryTestSuite) createTenantAndUser() (*models.Tenant, *models.User) {
	tenant := suite.tenants.Create()
	suite.NoError(suite.tenantRepo.Create(tenant))

	user := suite.users.Create()
	suite.NoError(suite.userRepo.Create(user))

	return tenant, user
}

// TestCreate tests creating a membership
func (suite *MembershipRepositoryTestSuite) TestCreate() {
	tenant, user := suite.createTenantAndUser()

	membership := suite.memberships.Create(tenant.ID, user.ID)
	err := suite.repo.Create(membership)

	suite.NoError(err)
	suite.NotEqual(uuid.Nil, membership.ID)
}

// TestCreateDuplicate tests the one-membership-per-user-per-tenant constraint
func (suite *MembershipRepositoryTestSuite) TestCreateDuplicate() {
	tenant, user := suite.createTenantAndUser()

	suite.NoError(suite.repo.Create(suite.memberships.Create(tenant.ID, user.ID)))

	err := suite.repo.Create(suite.memberships.Create(tenant.ID, user.ID))
	suite.Error(err)
	suite.Contains(err.Error(), "duplicate key value")
}

// TestGetByTenantAndUser tests the membership lookup used for tenant selection
func (suite *MembershipRepositoryTestSuite) TestGetByTenantAndUser() {
	tenant, user := suite.createTenantAndUser()
	created := suite.memberships.WithRole(tenant.ID, user.ID, models.MembershipRoleOwner)
	suite.NoError(suite.repo.Create(created))

	membership, err := suite.repo.GetByTenantAndUser(tenant.ID, user.ID)

	suite.NoError(err)
	suite.Equal(created.ID, membership.ID)
	suite.Equal(models.MembershipRoleOwner, membership.Role)
}

// TestGetByTenantAndUserNotFound tests a non-member lookup
func (suite *MembershipRepositoryTestSuite) TestGetByTenantAndUserNotFound() {
	tenant, _ := suite.createTenantAndUser()

	_, err := suite.repo.GetByTenantAndUser(tenant.ID, uuid.New())

	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestGetByUser tests listing a user's memberships with tenants preloaded
func (suite *MembershipRepositoryTestSuite) TestGetByUser() {
	tenantA, user := suite.createTenantAndUser()
	tenantB := suite.tenants.Create()
	suite.NoError(suite.tenantRepo.Create(tenantB))

	suite.NoError(suite.repo.Create(suite.memberships.Create(tenantA.ID, user.ID)))
	suite.NoError(suite.repo.Create(suite.memberships.Create(tenantB.ID, user.ID)))

	memberships, err := suite.repo.GetByUser(user.ID)

	suite.NoError(err)
	suite.Len(memberships, 2)
	for _, m := range memberships {
		suite.NotEqual(uuid.Nil, m.Tenant.ID)
		suite.NotEmpty(m.Tenant.Slug)
	}
}

// TestGetByTenant tests listing a tenant's members with users preloaded
func (suite *MembershipRepositoryTestSuite) TestGetByTenant() {
	tenant, user := suite.createTenantAndUser()
	other := suite.users.Create()
	suite.NoError(suite.userRepo.Create(other))

	suite.NoError(suite.repo.Create(suite.memberships.Create(tenant.ID, user.ID)))
	suite.NoError(suite.repo.Create(suite.memberships.Create(tenant.ID, other.ID)))

	memberships, total, err := suite.repo.GetByTenant(tenant.ID, 10, 0)

	suite.NoError(err)
	suite.Len(memberships, 2)
	suite.Equal(int64(2), total)
	for _, m := range memberships {
		suite.NotEmpty(m.User.Email)
	}
}

// TestDelete tests removing a membership
func (suite *MembershipRepositoryTestSuite) TestDelete() {
	tenant, user := suite.createTenantAndUser()
	membership := suite.memberships.Create(tenant.ID, user.ID)
	suite.NoError(suite.repo.Create(membership))

	suite.NoError(suite.repo.Delete(membership.ID))

	_, err := suite.repo.GetByTenantAndUser(tenant.ID, user.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// Run the test suite
func TestMembershipRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipRepositoryTestSuite))
}
