//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"

	"crm-platform-backend/internal/database/models"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/guard"
	"crm-platform-backend/internal/tenantctx"
	"crm-platform-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// AccountRepositoryTestSuite tests the AccountRepository
type AccountRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *AccountRepository
	tenantA       *models.Tenant
	tenantB       *models.Tenant
	ctxA          context.Context
	ctxB          context.Context
	accounts      *testutils.AccountFactory
}

// SetupSuite runs before all tests in the suite
func (suite *AccountRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewAccountRepository(guard.NewEngine(suite.baseTestSuite.DB, nil))
	suite.accounts = testutils.NewAccountFactory()
}

// TearDownSuite runs after all tests in the suite
func (suite *AccountRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *AccountRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()

	tenants := testutils.NewTenantFactory()
	suite.tenantA = tenants.WithSlug("tenant-a")
	suite.tenantB = tenants.WithSlug("tenant-b")
	suite.NoError(suite.baseTestSuite.DB.Create(suite.tenantA).Error)
	suite.NoError(suite.baseTestSuite.DB.Create(suite.tenantB).Error)

	suite.ctxA = tenantctx.WithTenant(context.Background(), suite.tenantA.ID)
	suite.ctxB = tenantctx.WithTenant(context.Background(), suite.tenantB.ID)
}

// TearDownTest runs after each test
func (suite *AccountRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// TestCreate tests creating an account under the current tenant
func (suite *AccountRepositoryTestSuite) TestCreate() {
	account := suite.accounts.WithName("Northwind Traders")

	err := suite.repo.Create(suite.ctxA, account)

	suite.NoError(err)
	suite.NotEqual(uuid.Nil, account.ID)
	suite.Equal(suite.tenantA.ID, account.TenantID)
}

// TestCreateWithParent tests creating a child account
func (suite *AccountRepositoryTestSuite) TestCreateWithParent() {
	parent := suite.accounts.WithName("Northwind Traders")
	suite.NoError(suite.repo.Create(suite.ctxA, parent))

	child := suite.accounts.WithName("Northwind East")
	child.ParentID = &parent.ID
	err := suite.repo.Create(suite.ctxA, child)

	suite.NoError(err)

	children, err := suite.repo.GetChildren(suite.ctxA, parent.ID)
	suite.NoError(err)
	suite.Len(children, 1)
	suite.Equal(child.ID, children[0].ID)
}

// TestCreateWithForeignParent tests that a cross-tenant parent is rejected
func (suite *AccountRepositoryTestSuite) TestCreateWithForeignParent() {
	parent := suite.accounts.Create()
	suite.NoError(suite.repo.Create(suite.ctxB, parent))

	child := suite.accounts.Create()
	child.ParentID = &parent.ID
	err := suite.repo.Create(suite.ctxA, child)

	suite.Error(err)
	suite.True(apperrors.IsReferential(err))
}

// TestGetByIDCrossTenant tests that a foreign account reads as not found
func (suite *AccountRepositoryTestSuite) TestGetByIDCrossTenant() {
	account := suite.accounts.Create()
	suite.NoError(suite.repo.Create(suite.ctxA, account))

	found, err := suite.repo.GetByID(suite.ctxA, account.ID)
	suite.NoError(err)
	suite.Equal(account.ID, found.ID)

	_, err = suite.repo.GetByID(suite.ctxB, account.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestGetByName tests name lookup within the current tenant
func (suite *AccountRepositoryTestSuite) TestGetByName() {
	suite.NoError(suite.repo.Create(suite.ctxA, suite.accounts.WithName("Acme Manufacturing")))
	suite.NoError(suite.repo.Create(suite.ctxB, suite.accounts.WithName("Acme Manufacturing")))

	found, err := suite.repo.GetByName(suite.ctxA, "Acme Manufacturing")
	suite.NoError(err)
	suite.Equal(suite.tenantA.ID, found.TenantID)
}

// TestGetAllWithPagination tests listing with pagination
func (suite *AccountRepositoryTestSuite) TestGetAllWithPagination() {
	for i := 0; i < 5; i++ {
		suite.NoError(suite.repo.Create(suite.ctxA, suite.accounts.Create()))
	}
	suite.NoError(suite.repo.Create(suite.ctxB, suite.accounts.Create()))

	accounts, total, err := suite.repo.GetAll(suite.ctxA, 2, 0)
	suite.NoError(err)
	suite.Len(accounts, 2)
	suite.Equal(int64(5), total)

	accounts, total, err = suite.repo.GetAll(suite.ctxA, 2, 4)
	suite.NoError(err)
	suite.Len(accounts, 1)
	suite.Equal(int64(5), total)
}

// TestSetParent tests repointing and clearing the parent
func (suite *AccountRepositoryTestSuite) TestSetParent() {
	parent := suite.accounts.WithName("parent")
	child := suite.accounts.WithName("child")
	suite.NoError(suite.repo.Create(suite.ctxA, parent))
	suite.NoError(suite.repo.Create(suite.ctxA, child))

	suite.NoError(suite.repo.SetParent(suite.ctxA, child.ID, &parent.ID))

	updated, err := suite.repo.GetByID(suite.ctxA, child.ID)
	suite.NoError(err)
	suite.NotNil(updated.ParentID)
	suite.Equal(parent.ID, *updated.ParentID)

	suite.NoError(suite.repo.SetParent(suite.ctxA, child.ID, nil))

	updated, err = suite.repo.GetByID(suite.ctxA, child.ID)
	suite.NoError(err)
	suite.Nil(updated.ParentID)
}

// TestSetParentSelfReference tests the self-parent guard
func (suite *AccountRepositoryTestSuite) TestSetParentSelfReference() {
	account := suite.accounts.Create()
	suite.NoError(suite.repo.Create(suite.ctxA, account))

	err := suite.repo.SetParent(suite.ctxA, account.ID, &account.ID)

	suite.ErrorIs(err, apperrors.ErrSelfReference)
}

// TestUpdateCrossTenant tests that a foreign update changes nothing
func (suite *AccountRepositoryTestSuite) TestUpdateCrossTenant() {
	account := suite.accounts.WithName("original")
	suite.NoError(suite.repo.Create(suite.ctxA, account))

	hijack := &models.Account{
		BaseModel: models.BaseModel{ID: account.ID},
		Name:      "hijacked",
		Status:    models.AccountStatusActive,
	}
	err := suite.repo.Update(suite.ctxB, hijack)

	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	intact, err := suite.repo.GetByID(suite.ctxA, account.ID)
	suite.NoError(err)
	suite.Equal("original", intact.Name)
}

// TestDeleteCrossTenant tests that a foreign delete removes nothing
func (suite *AccountRepositoryTestSuite) TestDeleteCrossTenant() {
	account := suite.accounts.Create()
	suite.NoError(suite.repo.Create(suite.ctxA, account))

	err := suite.repo.Delete(suite.ctxB, account.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = suite.repo.GetByID(suite.ctxA, account.ID)
	suite.NoError(err)
}

// TestCountByStatus tests the guarded status breakdown
func (suite *AccountRepositoryTestSuite) TestCountByStatus() {
	active := suite.accounts.Create()
	active.Status = models.AccountStatusActive
	suite.NoError(suite.repo.Create(suite.ctxA, active))
	suite.NoError(suite.repo.Create(suite.ctxA, suite.accounts.Create()))
	suite.NoError(suite.repo.Create(suite.ctxB, suite.accounts.Create()))

	rows, err := suite.repo.CountByStatus(suite.ctxA)
	suite.NoError(err)

	buckets := make(map[string]int64, len(rows))
	for _, row := range rows {
		buckets[row.Key] = row.Count
	}
	suite.Equal(int64(1), buckets["active"])
	suite.Equal(int64(1), buckets["prospect"])
}

// Run the test suite
func TestAccountRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(AccountRepositoryTestSuite))
}
