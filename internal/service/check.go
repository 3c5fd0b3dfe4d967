// internal/service/check.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
)

// EntitlementService is the entry point of the entitlements API: it resolves
// the queried identity and runs the admin chain against the subscription
// state. Lookups here never bind identifiers; trust binding is reserved for
// the metrics ingestion path.
type EntitlementService struct {
	identity      *IdentityResolver
	admin         *AdminEntitlementResolver
	organizations repository.OrganizationRepositoryIface
	services      repository.ServiceRepositoryIface
	subscriptions repository.SubscriptionRepositoryIface
	validate      *validator.Validate
}

func NewEntitlementService(
	identity *IdentityResolver,
	admin *AdminEntitlementResolver,
	organizations repository.OrganizationRepositoryIface,
	services repository.ServiceRepositoryIface,
	subscriptions repository.SubscriptionRepositoryIface,
) *EntitlementService {
	return &EntitlementService{
		identity:      identity,
		admin:         admin,
		organizations: organizations,
		services:      services,
		subscriptions: subscriptions,
		validate:      validator.New(),
	}
}

type CheckAdminInput struct {
	OrganizationID uuid.UUID         `validate:"required"`
	ServiceID      int64             `validate:"required"`
	AccountType    model.AccountType `validate:"required"`
	ExternalID     string
	Email          string
}

// CheckAdmin answers whether the queried account administers the service for
// the organization, and at which level the decision was made.
func (s *EntitlementService) CheckAdmin(ctx context.Context, in CheckAdminInput) (AdminDecision, error) {
	if err := s.validate.Struct(in); err != nil {
		return AdminDecision{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	organization, err := s.organizations.FindByID(ctx, in.OrganizationID)
	if err != nil {
		return AdminDecision{}, err
	}
	svc, err := s.services.FindByID(ctx, in.ServiceID)
	if err != nil {
		return AdminDecision{}, err
	}

	// Missing subscription is not an error for the chain: the auto-admin
	// override simply cannot apply.
	subscription, err := s.subscriptions.FindByOrganizationAndService(ctx, in.OrganizationID, in.ServiceID)
	if err != nil {
		if !errors.Is(err, domain.ErrSubscriptionNotFound) {
			return AdminDecision{}, err
		}
		subscription = nil
	}

	account, err := s.identity.Resolve(ctx, ResolveInput{
		OrganizationID: in.OrganizationID,
		AccountType:    in.AccountType,
		ExternalID:     in.ExternalID,
		Email:          in.Email,
		TrustBinding:   false,
	})
	if err != nil {
		return AdminDecision{}, err
	}

	return s.admin.IsAdmin(ctx, account, subscription, organization, svc)
}
