package service_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
	"github.com/suiteterritoriale/deploycenter/internal/service"
)

var serviceTestDBSeq atomic.Int64

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared in-memory database: a plain ":memory:" DSN gives every
	// pool connection its own empty database, which breaks as soon as a
	// transaction holds one connection while queries run on another.
	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", serviceTestDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func newOnboarder(db *gorm.DB) *service.AutoJoinOnboarder {
	return service.NewAutoJoinOnboarder(
		repository.NewOperatorRepository(db),
		repository.NewOrganizationRepository(db),
		repository.NewSubscriptionRepository(db),
		nil,
	)
}

func createService(t *testing.T, db *gorm.DB, serviceType string) *model.Service {
	t.Helper()
	svc := &model.Service{Type: serviceType, Name: serviceType, IsActive: true, Config: model.JSONMap{}}
	require.NoError(t, db.Create(svc).Error)
	return svc
}

func createOrganizationOfType(t *testing.T, db *gorm.DB, name string, orgType model.OrganizationType) *model.Organization {
	t.Helper()
	org := &model.Organization{Name: name, Type: orgType}
	require.NoError(t, db.Create(org).Error)
	return org
}

func TestAutoJoinOnboarder_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions roles and subscriptions idempotently", func(t *testing.T) {
		db := setupServiceDB(t)
		messages := createService(t, db, "messages")
		fichiers := createService(t, db, "fichiers")

		operator := &model.Operator{
			Name:     "OpNum Test",
			IsActive: true,
			AutoJoin: model.AutoJoinConfig{
				OrganizationTypes: []model.OrganizationType{model.OrgTypeCommune},
				ServiceIDs:        []int64{messages.ID, fichiers.ID},
			},
		}
		require.NoError(t, db.Create(operator).Error)
		require.NoError(t, db.Create(&model.OperatorServiceConfig{OperatorID: operator.ID, ServiceID: messages.ID}).Error)
		require.NoError(t, db.Create(&model.OperatorServiceConfig{OperatorID: operator.ID, ServiceID: fichiers.ID}).Error)

		createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		createOrganizationOfType(t, db, "Commune B", model.OrgTypeCommune)
		createOrganizationOfType(t, db, "EPCI C", model.OrgTypeEPCI)

		stats, err := newOnboarder(db).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.OperatorOrganizationRolesCreated)
		assert.Equal(t, int64(4), stats.ServiceSubscriptionsCreated)

		var role model.OperatorOrganizationRole
		require.NoError(t, db.First(&role).Error)
		assert.Equal(t, model.RoleManages, role.Role)

		// Second pass over the unchanged dataset creates nothing.
		stats, err = newOnboarder(db).Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.OperatorOrganizationRolesCreated)
		assert.Zero(t, stats.ServiceSubscriptionsCreated)
	})

	t.Run("picks up organizations added after the first run", func(t *testing.T) {
		db := setupServiceDB(t)
		messages := createService(t, db, "messages")

		operator := &model.Operator{
			Name:     "OpNum Test",
			IsActive: true,
			AutoJoin: model.AutoJoinConfig{
				OrganizationTypes: []model.OrganizationType{model.OrgTypeCommune},
				ServiceIDs:        []int64{messages.ID},
			},
		}
		require.NoError(t, db.Create(operator).Error)
		require.NoError(t, db.Create(&model.OperatorServiceConfig{OperatorID: operator.ID, ServiceID: messages.ID}).Error)

		createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		_, err := newOnboarder(db).Run(ctx)
		require.NoError(t, err)

		createOrganizationOfType(t, db, "Commune B", model.OrgTypeCommune)
		stats, err := newOnboarder(db).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.OperatorOrganizationRolesCreated)
		assert.Equal(t, int64(1), stats.ServiceSubscriptionsCreated)
	})

	t.Run("skips services without an operator service config", func(t *testing.T) {
		db := setupServiceDB(t)
		messages := createService(t, db, "messages")
		fichiers := createService(t, db, "fichiers")

		operator := &model.Operator{
			Name:     "OpNum Test",
			IsActive: true,
			AutoJoin: model.AutoJoinConfig{
				OrganizationTypes: []model.OrganizationType{model.OrgTypeCommune},
				ServiceIDs:        []int64{messages.ID, fichiers.ID},
			},
		}
		require.NoError(t, db.Create(operator).Error)
		// Only messages is configured for deployment.
		require.NoError(t, db.Create(&model.OperatorServiceConfig{OperatorID: operator.ID, ServiceID: messages.ID}).Error)

		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)

		stats, err := newOnboarder(db).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.OperatorOrganizationRolesCreated)
		assert.Equal(t, int64(1), stats.ServiceSubscriptionsCreated)

		var subs []model.ServiceSubscription
		require.NoError(t, db.Where("organization_id = ?", org.ID).Find(&subs).Error)
		require.Len(t, subs, 1)
		assert.Equal(t, messages.ID, subs[0].ServiceID)
	})

	t.Run("leaves a deactivated subscription deactivated", func(t *testing.T) {
		db := setupServiceDB(t)
		messages := createService(t, db, "messages")

		operator := &model.Operator{
			Name:     "OpNum Test",
			IsActive: true,
			AutoJoin: model.AutoJoinConfig{
				OrganizationTypes: []model.OrganizationType{model.OrgTypeCommune},
				ServiceIDs:        []int64{messages.ID},
			},
		}
		require.NoError(t, db.Create(operator).Error)
		require.NoError(t, db.Create(&model.OperatorServiceConfig{OperatorID: operator.ID, ServiceID: messages.ID}).Error)

		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		sub := &model.ServiceSubscription{
			OrganizationID: org.ID,
			ServiceID:      messages.ID,
			IsActive:       true,
			Metadata:       model.JSONMap{},
		}
		require.NoError(t, db.Create(sub).Error)
		// Manual deactivation, as an operator support action would do it.
		require.NoError(t, db.Model(sub).Update("is_active", false).Error)

		stats, err := newOnboarder(db).Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.ServiceSubscriptionsCreated)

		var got model.ServiceSubscription
		require.NoError(t, db.Where("organization_id = ? AND service_id = ?", org.ID, messages.ID).First(&got).Error)
		assert.False(t, got.IsActive)
	})

	t.Run("ignores operators without an auto-join policy", func(t *testing.T) {
		db := setupServiceDB(t)
		createService(t, db, "messages")
		createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)

		require.NoError(t, db.Create(&model.Operator{Name: "Passive Operator", IsActive: true}).Error)

		stats, err := newOnboarder(db).Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.OperatorOrganizationRolesCreated)
		assert.Zero(t, stats.ServiceSubscriptionsCreated)
	})

	t.Run("ignores inactive operators", func(t *testing.T) {
		db := setupServiceDB(t)
		messages := createService(t, db, "messages")
		createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)

		operator := &model.Operator{
			Name:     "Retired Operator",
			IsActive: true,
			AutoJoin: model.AutoJoinConfig{
				OrganizationTypes: []model.OrganizationType{model.OrgTypeCommune},
				ServiceIDs:        []int64{messages.ID},
			},
		}
		require.NoError(t, db.Create(operator).Error)
		require.NoError(t, db.Model(operator).Update("is_active", false).Error)

		stats, err := newOnboarder(db).Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.OperatorOrganizationRolesCreated)
	})
}
