// internal/service/metrics.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
)

// MetricsService ingests usage reports from subscribed services. Each report
// carries an identity assertion which is resolved, and created on demand,
// before the metric is stored. Trust for external-id binding comes from the
// reporting service's own configuration, never from the report.
type MetricsService struct {
	identity *IdentityResolver
	services repository.ServiceRepositoryIface
	orgs     repository.OrganizationRepositoryIface
	accounts repository.AccountRepositoryIface
	metrics  repository.MetricRepositoryIface
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewMetricsService(
	identity *IdentityResolver,
	services repository.ServiceRepositoryIface,
	orgs repository.OrganizationRepositoryIface,
	accounts repository.AccountRepositoryIface,
	metrics repository.MetricRepositoryIface,
	logger *slog.Logger,
) *MetricsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsService{
		identity: identity,
		services: services,
		orgs:     orgs,
		accounts: accounts,
		metrics:  metrics,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

type ReportInput struct {
	ServiceID      int64             `json:"service_id" validate:"required"`
	OrganizationID uuid.UUID         `json:"organization_id" validate:"required"`
	AccountType    model.AccountType `json:"account_type" validate:"required"`
	ExternalID     string            `json:"external_id"`
	Email          string            `json:"email"`
	Key            string            `json:"key" validate:"required"`
	Value          float64           `json:"value"`
}

// Report resolves the reported identity, creating the account when unknown,
// and upserts the metric value. Returns the resolved account.
func (s *MetricsService) Report(ctx context.Context, in ReportInput) (*model.Account, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	svc, err := s.services.FindByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.orgs.FindByID(ctx, in.OrganizationID); err != nil {
		return nil, err
	}

	account, err := s.identity.Resolve(ctx, ResolveInput{
		OrganizationID: in.OrganizationID,
		AccountType:    in.AccountType,
		ExternalID:     in.ExternalID,
		Email:          in.Email,
		TrustBinding:   svc.TrustedAccountBinding(),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		// Unknown identity: the reporting service is the system of first
		// sight for this account.
		account = &model.Account{
			OrganizationID: in.OrganizationID,
			Type:           in.AccountType,
			ExternalID:     in.ExternalID,
			Email:          in.Email,
			Roles:          model.Roles{},
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, err
		}
		s.logger.Info("created account from usage report",
			"organization_id", in.OrganizationID,
			"service_id", in.ServiceID,
			"account_type", in.AccountType)
	}

	metric := &model.Metric{
		ServiceID:      in.ServiceID,
		OrganizationID: in.OrganizationID,
		Key:            in.Key,
		Value:          in.Value,
		Timestamp:      s.now().UTC(),
	}
	if err := s.metrics.Upsert(ctx, metric); err != nil {
		return nil, err
	}

	return account, nil
}

// ListByOrganization returns the latest value of every metric the service has
// reported for the organization, ordered by key.
func (s *MetricsService) ListByOrganization(ctx context.Context, orgID uuid.UUID, serviceID int64) ([]*model.Metric, error) {
	if _, err := s.services.FindByID(ctx, serviceID); err != nil {
		return nil, err
	}
	if _, err := s.orgs.FindByID(ctx, orgID); err != nil {
		return nil, err
	}
	return s.metrics.FindByOrganization(ctx, orgID, serviceID)
}
