package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
	"github.com/suiteterritoriale/deploycenter/internal/service"
)

func newMetricsService(db *gorm.DB) *service.MetricsService {
	accounts := repository.NewAccountRepository(db)
	return service.NewMetricsService(
		service.NewIdentityResolver(accounts, nil),
		repository.NewServiceRepository(db),
		repository.NewOrganizationRepository(db),
		accounts,
		repository.NewMetricRepository(db),
		nil,
	)
}

func TestMetricsService_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account on first sight", func(t *testing.T) {
		db := setupServiceDB(t)
		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		svc := createService(t, db, "messages")

		account, err := newMetricsService(db).Report(ctx, service.ReportInput{
			ServiceID:      svc.ID,
			OrganizationID: org.ID,
			AccountType:    model.AccountTypeUser,
			ExternalID:     "sub-new",
			Email:          "new@commune.fr",
			Key:            "mails_sent",
			Value:          12,
		})
		require.NoError(t, err)
		assert.Equal(t, "sub-new", account.ExternalID)
		assert.Equal(t, "new@commune.fr", account.Email)

		var metric model.Metric
		require.NoError(t, db.Where("service_id = ? AND organization_id = ?", svc.ID, org.ID).First(&metric).Error)
		assert.Equal(t, "mails_sent", metric.Key)
		assert.Equal(t, float64(12), metric.Value)
	})

	t.Run("trusted service backfills the external id", func(t *testing.T) {
		db := setupServiceDB(t)
		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)

		svc := &model.Service{
			Type:     "messages",
			Name:     "Messagerie",
			IsActive: true,
			Config:   model.JSONMap{model.ConfigTrustedAccountBinding: true},
		}
		require.NoError(t, db.Create(svc).Error)

		existing := &model.Account{
			OrganizationID: org.ID,
			Type:           model.AccountTypeUser,
			Email:          "agent@commune.fr",
		}
		require.NoError(t, db.Create(existing).Error)

		account, err := newMetricsService(db).Report(ctx, service.ReportInput{
			ServiceID:      svc.ID,
			OrganizationID: org.ID,
			AccountType:    model.AccountTypeUser,
			ExternalID:     "sub-agent",
			Email:          "agent@commune.fr",
			Key:            "logins",
			Value:          1,
		})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, account.ID)
		assert.Equal(t, "sub-agent", account.ExternalID)

		var stored model.Account
		require.NoError(t, db.First(&stored, "id = ?", existing.ID).Error)
		assert.Equal(t, "sub-agent", stored.ExternalID)

		// The account was matched, not duplicated.
		var count int64
		require.NoError(t, db.Model(&model.Account{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("untrusted service never binds", func(t *testing.T) {
		db := setupServiceDB(t)
		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		svc := createService(t, db, "fichiers")

		existing := &model.Account{
			OrganizationID: org.ID,
			Type:           model.AccountTypeUser,
			Email:          "agent@commune.fr",
		}
		require.NoError(t, db.Create(existing).Error)

		account, err := newMetricsService(db).Report(ctx, service.ReportInput{
			ServiceID:      svc.ID,
			OrganizationID: org.ID,
			AccountType:    model.AccountTypeUser,
			ExternalID:     "sub-claimed",
			Email:          "agent@commune.fr",
			Key:            "uploads",
			Value:          3,
		})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, account.ID)

		var stored model.Account
		require.NoError(t, db.First(&stored, "id = ?", existing.ID).Error)
		assert.Empty(t, stored.ExternalID)
	})

	t.Run("repeated reports keep one row per key", func(t *testing.T) {
		db := setupServiceDB(t)
		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		svc := createService(t, db, "messages")
		metricsService := newMetricsService(db)

		report := service.ReportInput{
			ServiceID:      svc.ID,
			OrganizationID: org.ID,
			AccountType:    model.AccountTypeUser,
			Email:          "agent@commune.fr",
			Key:            "mails_sent",
			Value:          10,
		}
		_, err := metricsService.Report(ctx, report)
		require.NoError(t, err)

		report.Value = 25
		_, err = metricsService.Report(ctx, report)
		require.NoError(t, err)

		var metrics []model.Metric
		require.NoError(t, db.Where("service_id = ?", svc.ID).Find(&metrics).Error)
		require.Len(t, metrics, 1)
		assert.Equal(t, float64(25), metrics[0].Value)
	})

	t.Run("rejects reports for unknown services", func(t *testing.T) {
		db := setupServiceDB(t)
		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)

		_, err := newMetricsService(db).Report(ctx, service.ReportInput{
			ServiceID:      42,
			OrganizationID: org.ID,
			AccountType:    model.AccountTypeUser,
			Email:          "agent@commune.fr",
			Key:            "mails_sent",
		})
		assert.ErrorIs(t, err, domain.ErrServiceNotFound)
	})

	t.Run("rejects reports without identifiers", func(t *testing.T) {
		db := setupServiceDB(t)
		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		svc := createService(t, db, "messages")

		_, err := newMetricsService(db).Report(ctx, service.ReportInput{
			ServiceID:      svc.ID,
			OrganizationID: org.ID,
			AccountType:    model.AccountTypeUser,
			Key:            "mails_sent",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestMetricsService_ListByOrganization(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the latest value per key, ordered", func(t *testing.T) {
		db := setupServiceDB(t)
		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		other := createOrganizationOfType(t, db, "Commune B", model.OrgTypeCommune)
		svc := createService(t, db, "messages")
		metricsService := newMetricsService(db)

		report := service.ReportInput{
			ServiceID:      svc.ID,
			OrganizationID: org.ID,
			AccountType:    model.AccountTypeUser,
			Email:          "agent@commune.fr",
			Key:            "mails_sent",
			Value:          10,
		}
		_, err := metricsService.Report(ctx, report)
		require.NoError(t, err)

		report.Value = 25
		_, err = metricsService.Report(ctx, report)
		require.NoError(t, err)

		report.Key = "logins"
		report.Value = 4
		_, err = metricsService.Report(ctx, report)
		require.NoError(t, err)

		// Another organization's metrics stay out of the listing.
		report.OrganizationID = other.ID
		report.Email = "agent@autre.fr"
		_, err = metricsService.Report(ctx, report)
		require.NoError(t, err)

		metrics, err := metricsService.ListByOrganization(ctx, org.ID, svc.ID)
		require.NoError(t, err)
		require.Len(t, metrics, 2)
		assert.Equal(t, "logins", metrics[0].Key)
		assert.Equal(t, "mails_sent", metrics[1].Key)
		assert.Equal(t, float64(25), metrics[1].Value)
	})

	t.Run("rejects unknown services and organizations", func(t *testing.T) {
		db := setupServiceDB(t)
		org := createOrganizationOfType(t, db, "Commune A", model.OrgTypeCommune)
		svc := createService(t, db, "messages")
		metricsService := newMetricsService(db)

		_, err := metricsService.ListByOrganization(ctx, org.ID, 42)
		assert.ErrorIs(t, err, domain.ErrServiceNotFound)

		_, err = metricsService.ListByOrganization(ctx, uuid.New(), svc.ID)
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}
