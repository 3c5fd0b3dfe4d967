package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/mocks"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
	"github.com/suiteterritoriale/deploycenter/internal/service"
)

func newAccountService(db *gorm.DB) *service.AccountService {
	accounts := repository.NewAccountRepository(db)
	return service.NewAccountService(
		accounts,
		repository.NewOrganizationRepository(db),
		service.NewIdentityResolver(accounts, nil),
	)
}

func TestAccountService_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("creates then matches instead of duplicating", func(t *testing.T) {
		db := setupServiceDB(t)
		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		accountService := newAccountService(db)

		account, created, err := accountService.Upsert(ctx, service.UpsertAccountInput{
			OrganizationID: org.ID,
			Type:           model.AccountTypeUser,
			Email:          "agent@commune.fr",
			Roles:          []string{"viewer"},
		})
		require.NoError(t, err)
		assert.True(t, created)

		// Same identity through the external id this time: the provisioning
		// path is trusted, so the blank external_id gets backfilled.
		updated, created, err := accountService.Upsert(ctx, service.UpsertAccountInput{
			OrganizationID: org.ID,
			Type:           model.AccountTypeUser,
			ExternalID:     "sub-agent",
			Email:          "agent@commune.fr",
			Roles:          []string{"admin"},
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, account.ID, updated.ID)
		assert.Equal(t, "sub-agent", updated.ExternalID)
		assert.True(t, updated.Roles.Contains("admin"))

		var count int64
		require.NoError(t, db.Model(&model.Account{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("keeps roles when none are provided", func(t *testing.T) {
		db := setupServiceDB(t)
		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		accountService := newAccountService(db)

		_, _, err := accountService.Upsert(ctx, service.UpsertAccountInput{
			OrganizationID: org.ID,
			Type:           model.AccountTypeUser,
			Email:          "agent@commune.fr",
			Roles:          []string{"admin"},
		})
		require.NoError(t, err)

		account, created, err := accountService.Upsert(ctx, service.UpsertAccountInput{
			OrganizationID: org.ID,
			Type:           model.AccountTypeUser,
			Email:          "agent@commune.fr",
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.True(t, account.Roles.Contains("admin"))
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		db := setupServiceDB(t)
		accountService := newAccountService(db)

		_, _, err := accountService.Upsert(ctx, service.UpsertAccountInput{
			OrganizationID: createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune).ID,
			Type:           model.AccountTypeUser,
			Email:          "not-an-email",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects unknown organizations", func(t *testing.T) {
		db := setupServiceDB(t)
		accountService := newAccountService(db)

		_, _, err := accountService.Upsert(ctx, service.UpsertAccountInput{
			OrganizationID: uuid.New(),
			Type:           model.AccountTypeUser,
			Email:          "agent@commune.fr",
		})
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Commit() error   { tx.committed = true; return nil }
func (tx *fakeTx) Rollback() error { tx.rolledBack = true; return nil }

func TestAccountService_UpsertTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	orgID := uuid.New()
	org := &model.Organization{ID: orgID, Name: "Commune A", Type: model.OrgTypeCommune}

	newMockedService := func(accounts *mocks.MockAccountRepositoryIface, orgs *mocks.MockOrganizationRepositoryIface) *service.AccountService {
		return service.NewAccountService(accounts, orgs, service.NewIdentityResolver(accounts, nil))
	}

	t.Run("commits once the create lands", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepositoryIface(ctrl)
		orgs := mocks.NewMockOrganizationRepositoryIface(ctrl)
		tx := &fakeTx{}

		orgs.EXPECT().FindByID(gomock.Any(), orgID).Return(org, nil)
		gomock.InOrder(
			accounts.EXPECT().Begin(gomock.Any()).Return(tx, nil),
			accounts.EXPECT().
				FindByEmail(gomock.Any(), orgID, model.AccountTypeUser, "agent@commune.fr").
				Return(nil, domain.ErrAccountNotFound),
			accounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
		)

		accountService := newMockedService(accounts, orgs)
		_, created, err := accountService.Upsert(ctx, service.UpsertAccountInput{
			OrganizationID: orgID,
			Type:           model.AccountTypeUser,
			Email:          "agent@commune.fr",
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, tx.committed)
	})

	t.Run("rolls back when the create fails", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepositoryIface(ctrl)
		orgs := mocks.NewMockOrganizationRepositoryIface(ctrl)
		tx := &fakeTx{}

		orgs.EXPECT().FindByID(gomock.Any(), orgID).Return(org, nil)
		gomock.InOrder(
			accounts.EXPECT().Begin(gomock.Any()).Return(tx, nil),
			accounts.EXPECT().
				FindByEmail(gomock.Any(), orgID, model.AccountTypeUser, "agent@commune.fr").
				Return(nil, domain.ErrAccountNotFound),
			accounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrIntegrityViolation),
		)

		accountService := newMockedService(accounts, orgs)
		_, _, err := accountService.Upsert(ctx, service.UpsertAccountInput{
			OrganizationID: orgID,
			Type:           model.AccountTypeUser,
			Email:          "agent@commune.fr",
		})
		assert.ErrorIs(t, err, domain.ErrIntegrityViolation)
		assert.False(t, tx.committed)
		assert.True(t, tx.rolledBack)
	})
}

func TestAccountService_SetServiceRoles(t *testing.T) {
	ctx := context.Background()
	db := setupServiceDB(t)
	org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
	svc := createService(t, db, "messages")
	accountService := newAccountService(db)

	account, _, err := accountService.Upsert(ctx, service.UpsertAccountInput{
		OrganizationID: org.ID,
		Type:           model.AccountTypeUser,
		Email:          "agent@commune.fr",
	})
	require.NoError(t, err)

	link, err := accountService.SetServiceRoles(ctx, service.SetServiceRolesInput{
		AccountID: account.ID,
		ServiceID: svc.ID,
		Roles:     []string{"admin"},
		Scope:     model.JSONMap{"domains": []interface{}{"commune.fr"}},
	})
	require.NoError(t, err)
	assert.True(t, link.Roles.Contains("admin"))

	// Replacing the roles keeps a single link per pair.
	link, err = accountService.SetServiceRoles(ctx, service.SetServiceRolesInput{
		AccountID: account.ID,
		ServiceID: svc.ID,
		Roles:     []string{"viewer"},
	})
	require.NoError(t, err)
	assert.False(t, link.Roles.Contains("admin"))

	var count int64
	require.NoError(t, db.Model(&model.AccountServiceLink{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	accounts, err := accountService.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
