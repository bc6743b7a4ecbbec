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

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// ContactRepositoryTestSuite tests the ContactRepository
type ContactRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *ContactRepository
	accountRepo   *AccountRepository
	tenantA       *models.Tenant
	tenantB       *models.Tenant
	ctxA          context.Context
	ctxB          context.Context
	contacts      *testutils.ContactFactory
	accounts      *testutils.AccountFactory
}

// SetupSuite runs before all tests in the suite
func (suite *ContactRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	engine := guard.NewEngine(suite.baseTestSuite.DB, nil)
	suite.repo = NewContactRepository(engine)
	suite.accountRepo = NewAccountRepository(engine)
	suite.contacts = testutils.NewContactFactory()
	suite.accounts = testutils.NewAccountFactory()
}

// TearDownSuite runs after all tests in the suite
func (suite *ContactRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *ContactRepositoryTestSuite) SetupTest() {
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
func (suite *ContactRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// TestCreate tests creating a contact under the current tenant
func (suite *ContactRepositoryTestSuite) TestCreate() {
	contact := suite.contacts.Create()

	err := suite.repo.Create(suite.ctxA, contact)

	suite.NoError(err)
	suite.Equal(suite.tenantA.ID, contact.TenantID)
}

// TestCreateWithForeignAccount tests that a cross-tenant account reference is rejected
func (suite *ContactRepositoryTestSuite) TestCreateWithForeignAccount() {
	account := suite.accounts.Create()
	suite.NoError(suite.accountRepo.Create(suite.ctxB, account))

	contact := suite.contacts.WithAccount(account.ID)
	err := suite.repo.Create(suite.ctxA, contact)

	suite.Error(err)
	suite.True(apperrors.IsReferential(err))
}

// TestSameEmailAcrossTenants tests the per-tenant email uniqueness boundary
func (suite *ContactRepositoryTestSuite) TestSameEmailAcrossTenants() {
	first := suite.contacts.Create()
	first.Email = "shared@example.com"
	suite.NoError(suite.repo.Create(suite.ctxA, first))

	second := suite.contacts.Create()
	second.Email = "shared@example.com"
	suite.NoError(suite.repo.Create(suite.ctxB, second))

	third := suite.contacts.Create()
	third.Email = "shared@example.com"
	err := suite.repo.Create(suite.ctxA, third)
	suite.Error(err)
	suite.Contains(err.Error(), "duplicate key value")
}

// TestGetByEmailScopedToTenant tests email lookup within the current tenant
func (suite *ContactRepositoryTestSuite) TestGetByEmailScopedToTenant() {
	contact := suite.contacts.Create()
	contact.Email = "alice@example.com"
	suite.NoError(suite.repo.Create(suite.ctxA, contact))

	found, err := suite.repo.GetByEmail(suite.ctxA, "alice@example.com")
	suite.NoError(err)
	suite.Equal(contact.ID, found.ID)

	_, err = suite.repo.GetByEmail(suite.ctxB, "alice@example.com")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestGetAllFilteredByAccount tests listing contacts narrowed to one account
func (suite *ContactRepositoryTestSuite) TestGetAllFilteredByAccount() {
	account := suite.accounts.Create()
	suite.NoError(suite.accountRepo.Create(suite.ctxA, account))

	attached := suite.contacts.WithAccount(account.ID)
	suite.NoError(suite.repo.Create(suite.ctxA, attached))
	suite.NoError(suite.repo.Create(suite.ctxA, suite.contacts.Create()))

	contacts, total, err := suite.repo.GetAll(suite.ctxA, &account.ID, 10, 0)
	suite.NoError(err)
	suite.Len(contacts, 1)
	suite.Equal(int64(1), total)
	suite.Equal(attached.ID, contacts[0].ID)

	contacts, total, err = suite.repo.GetAll(suite.ctxA, nil, 10, 0)
	suite.NoError(err)
	suite.Len(contacts, 2)
	suite.Equal(int64(2), total)
}

// TestDeleteCrossTenant tests that a foreign delete removes nothing
func (suite *ContactRepositoryTestSuite) TestDeleteCrossTenant() {
	contact := suite.contacts.Create()
	suite.NoError(suite.repo.Create(suite.ctxA, contact))

	err := suite.repo.Delete(suite.ctxB, contact.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = suite.repo.GetByID(suite.ctxA, contact.ID)
	suite.NoError(err)
}

// Run the test suite
func TestContactRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ContactRepositoryTestSuite))
}
