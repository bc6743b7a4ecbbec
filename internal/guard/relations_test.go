//go:build integration
// +build integration

package guard

import (
	"context"
	"testing"

	"crm-platform-backend/internal/database/models"
	apperrors "crm-platform-backend/internal/errors"
	"crm-platform-backend/internal/tenantctx"
	"crm-platform-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var testAttachmentPolicy = IndirectPolicy{
	Relations: []RelationRef{
		{Column: "account_id", Table: "accounts"},
		{Column: "contact_id", Table: "contacts"},
	},
	OwnerColumn: "uploader_id",
}

// RelationsTestSuite tests reference validation and indirect scoping
type RelationsTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	engine        *Engine
	tenantA       *models.Tenant
	tenantB       *models.Tenant
	ctxA          context.Context
	ctxB          context.Context
	accounts      *testutils.AccountFactory
	contacts      *testutils.ContactFactory
	attachments   *testutils.AttachmentFactory
}

// SetupSuite runs before all tests in the suite
func (suite *RelationsTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.engine = NewEngine(suite.baseTestSuite.DB, nil)
	suite.accounts = testutils.NewAccountFactory()
	suite.contacts = testutils.NewContactFactory()
	suite.attachments = testutils.NewAttachmentFactory()
}

// TearDownSuite runs after all tests in the suite
func (suite *RelationsTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *RelationsTestSuite) SetupTest() {
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
func (suite *RelationsTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// TestCheckReferenceSameTenant tests that a same-tenant reference passes
func (suite *RelationsTestSuite) TestCheckReferenceSameTenant() {
	account := suite.accounts.Create()
	suite.NoError(Create(suite.ctxA, suite.engine, account))

	suite.NoError(CheckReference[models.Account](suite.ctxA, suite.engine, account.ID))
}

// TestCheckReferenceConflatesForeignAndAbsent tests the referential conflation
func (suite *RelationsTestSuite) TestCheckReferenceConflatesForeignAndAbsent() {
	account := suite.accounts.Create()
	suite.NoError(Create(suite.ctxA, suite.engine, account))

	errForeign := CheckReference[models.Account](suite.ctxB, suite.engine, account.ID)
	errAbsent := CheckReference[models.Account](suite.ctxB, suite.engine, uuid.New())

	suite.True(apperrors.IsReferential(errForeign))
	suite.True(apperrors.IsReferential(errAbsent))
	suite.Equal(errForeign.Error(), errAbsent.Error())
}

// TestCheckParentRefSelfReference tests the depth-1 cycle guard
func (suite *RelationsTestSuite) TestCheckParentRefSelfReference() {
	id := uuid.New()

	err := CheckParentRef[models.Account](suite.ctxA, suite.engine, id, id)

	suite.ErrorIs(err, apperrors.ErrSelfReference)
}

// TestCheckParentRefCrossTenant tests that a foreign parent is rejected
func (suite *RelationsTestSuite) TestCheckParentRefCrossTenant() {
	parent := suite.accounts.Create()
	suite.NoError(Create(suite.ctxB, suite.engine, parent))

	err := CheckParentRef[models.Account](suite.ctxA, suite.engine, uuid.New(), parent.ID)

	suite.True(apperrors.IsReferential(err))
}

// TestIndirectVisibilityThroughAccount tests scoping via the account relation
func (suite *RelationsTestSuite) TestIndirectVisibilityThroughAccount() {
	account := suite.accounts.Create()
	suite.NoError(Create(suite.ctxA, suite.engine, account))

	uploader := uuid.New()
	attachment := suite.attachments.WithAccount(uploader, account.ID)
	suite.NoError(CreateIndirect(suite.ctxA, suite.engine, attachment))

	found, err := FirstIndirect[models.Attachment](suite.ctxA, suite.engine, testAttachmentPolicy, nil,
		Where("id = ?", attachment.ID))
	suite.NoError(err)
	suite.Equal(attachment.ID, found.ID)

	// Invisible from the other tenant.
	_, err = FirstIndirect[models.Attachment](suite.ctxB, suite.engine, testAttachmentPolicy, nil,
		Where("id = ?", attachment.ID))
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestIndirectVisibilityThroughContact tests scoping via the contact relation
func (suite *RelationsTestSuite) TestIndirectVisibilityThroughContact() {
	contact := suite.contacts.Create()
	suite.NoError(Create(suite.ctxA, suite.engine, contact))

	attachment := suite.attachments.WithContact(uuid.New(), contact.ID)
	suite.NoError(CreateIndirect(suite.ctxA, suite.engine, attachment))

	rows, err := FindIndirect[models.Attachment](suite.ctxA, suite.engine, testAttachmentPolicy, nil)
	suite.NoError(err)
	suite.Len(rows, 1)

	rows, err = FindIndirect[models.Attachment](suite.ctxB, suite.engine, testAttachmentPolicy, nil)
	suite.NoError(err)
	suite.Empty(rows)
}

// TestRelationlessRowsNeedOwnerFilter tests owner-only visibility
func (suite *RelationsTestSuite) TestRelationlessRowsNeedOwnerFilter() {
	uploader := uuid.New()
	attachment := suite.attachments.Create(uploader)
	suite.NoError(CreateIndirect(suite.ctxA, suite.engine, attachment))

	// Without an owner filter the row is invisible even to its tenant.
	rows, err := FindIndirect[models.Attachment](suite.ctxA, suite.engine, testAttachmentPolicy, nil)
	suite.NoError(err)
	suite.Empty(rows)

	// With the uploader's filter it appears.
	rows, err = FindIndirect[models.Attachment](suite.ctxA, suite.engine, testAttachmentPolicy, &uploader)
	suite.NoError(err)
	suite.Len(rows, 1)

	// A different owner's filter does not expose it.
	other := uuid.New()
	rows, err = FindIndirect[models.Attachment](suite.ctxA, suite.engine, testAttachmentPolicy, &other)
	suite.NoError(err)
	suite.Empty(rows)
}

// TestCountIndirect tests guarded counting over the indirect predicate
func (suite *RelationsTestSuite) TestCountIndirect() {
	account := suite.accounts.Create()
	suite.NoError(Create(suite.ctxA, suite.engine, account))

	uploader := uuid.New()
	suite.NoError(CreateIndirect(suite.ctxA, suite.engine, suite.attachments.WithAccount(uploader, account.ID)))
	suite.NoError(CreateIndirect(suite.ctxA, suite.engine, suite.attachments.Create(uploader)))

	n, err := CountIndirect[models.Attachment](suite.ctxA, suite.engine, testAttachmentPolicy, nil)
	suite.NoError(err)
	suite.Equal(int64(1), n)

	n, err = CountIndirect[models.Attachment](suite.ctxA, suite.engine, testAttachmentPolicy, &uploader)
	suite.NoError(err)
	suite.Equal(int64(2), n)
}

// TestCreateIndirectRequiresTenantContext tests the fail-fast on indirect creates
func (suite *RelationsTestSuite) TestCreateIndirectRequiresTenantContext() {
	err := CreateIndirect(context.Background(), suite.engine, suite.attachments.Create(uuid.New()))

	suite.ErrorIs(err, apperrors.ErrNoTenantContext)
}

// TestDeleteIndirectForeignRowNotFound tests guarded indirect deletes
func (suite *RelationsTestSuite) TestDeleteIndirectForeignRowNotFound() {
	account := suite.accounts.Create()
	suite.NoError(Create(suite.ctxA, suite.engine, account))

	attachment := suite.attachments.WithAccount(uuid.New(), account.ID)
	suite.NoError(CreateIndirect(suite.ctxA, suite.engine, attachment))

	err := DeleteIndirect[models.Attachment](suite.ctxB, suite.engine, testAttachmentPolicy, nil, attachment.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	// The owning tenant can delete it.
	suite.NoError(DeleteIndirect[models.Attachment](suite.ctxA, suite.engine, testAttachmentPolicy, nil, attachment.ID))

	var count int64
	suite.baseTestSuite.DB.Model(&models.Attachment{}).Where("id = ?", attachment.ID).Count(&count)
	suite.Equal(int64(0), count)
}

// TestSystemContextSeesAllIndirectRows tests the unscoped escape hatch
func (suite *RelationsTestSuite) TestSystemContextSeesAllIndirectRows() {
	account := suite.accounts.Create()
	suite.NoError(Create(suite.ctxA, suite.engine, account))
	suite.NoError(CreateIndirect(suite.ctxA, suite.engine, suite.attachments.WithAccount(uuid.New(), account.ID)))
	suite.NoError(CreateIndirect(suite.ctxA, suite.engine, suite.attachments.Create(uuid.New())))

	rows, err := FindIndirect[models.Attachment](tenantctx.AsSystem(context.Background()), suite.engine, testAttachmentPolicy, nil)
	suite.NoError(err)
	suite.Len(rows, 2)
}

// Run the test suite
func TestRelationsTestSuite(t *testing.T) {
	suite.Run(t, new(RelationsTestSuite))
}
