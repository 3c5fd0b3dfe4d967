// internal/service/autojoin.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
)

// AutoJoinStats reports what one onboarder run actually created. A re-run
// against an unchanged dataset returns zeros.
type AutoJoinStats struct {
	OperatorOrganizationRolesCreated int64 `json:"operator_organization_roles_created"`
	ServiceSubscriptionsCreated      int64 `json:"service_subscriptions_created"`
}

// AutoJoinOnboarder bulk-provisions operator management roles and service
// subscriptions from each operator's declared auto-join policy. It runs on
// every import cycle, so every write path is conflict-tolerant: it only ever
// creates rows, and an existing row, active or manually deactivated, is left
// exactly as it was.
type AutoJoinOnboarder struct {
	operators     repository.OperatorRepositoryIface
	organizations repository.OrganizationRepositoryIface
	subscriptions repository.SubscriptionRepositoryIface
	logger        *slog.Logger
}

func NewAutoJoinOnboarder(
	operators repository.OperatorRepositoryIface,
	organizations repository.OrganizationRepositoryIface,
	subscriptions repository.SubscriptionRepositoryIface,
	logger *slog.Logger,
) *AutoJoinOnboarder {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoJoinOnboarder{
		operators:     operators,
		organizations: organizations,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// Run executes one onboarding pass over all active operators.
func (o *AutoJoinOnboarder) Run(ctx context.Context) (*AutoJoinStats, error) {
	operators, err := o.operators.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active operators: %w", err)
	}

	stats := &AutoJoinStats{}
	for _, operator := range operators {
		if !operator.AutoJoin.Enabled() {
			continue
		}
		if err := o.runOperator(ctx, operator, stats); err != nil {
			return nil, fmt.Errorf("auto-join for operator %q: %w", operator.Name, err)
		}
	}

	o.logger.Info("auto-join completed",
		"operator_organization_roles_created", stats.OperatorOrganizationRolesCreated,
		"service_subscriptions_created", stats.ServiceSubscriptionsCreated)
	return stats, nil
}

func (o *AutoJoinOnboarder) runOperator(ctx context.Context, operator *model.Operator, stats *AutoJoinStats) error {
	// A declared service without an OperatorServiceConfig is a configuration
	// gap, not a fatal error: warn, skip it, and let the others proceed.
	validServiceIDs := make([]int64, 0, len(operator.AutoJoin.ServiceIDs))
	for _, serviceID := range operator.AutoJoin.ServiceIDs {
		ok, err := o.operators.HasServiceConfig(ctx, operator.ID, serviceID)
		if err != nil {
			return err
		}
		if !ok {
			o.logger.Warn("skipping service without operator service config",
				"operator", operator.Name,
				"service_id", serviceID,
				"error", domain.ErrOperatorServiceConfigMissing)
			continue
		}
		validServiceIDs = append(validServiceIDs, serviceID)
	}

	// Match all organizations of the declared types, not only newly imported
	// ones: organizations can change type or appear outside the visible
	// batch, and the conflict-free inserts make the comprehensive pass safe.
	organizations, err := o.organizations.FindByTypes(ctx, operator.AutoJoin.OrganizationTypes)
	if err != nil {
		return err
	}
	if len(organizations) == 0 {
		return nil
	}

	roles := make([]model.OperatorOrganizationRole, 0, len(organizations))
	for _, org := range organizations {
		roles = append(roles, model.OperatorOrganizationRole{
			OperatorID:     operator.ID,
			OrganizationID: org.ID,
			Role:           model.RoleManages,
		})
	}
	created, err := o.operators.BulkCreateOrganizationRoles(ctx, roles)
	if err != nil {
		return err
	}
	stats.OperatorOrganizationRolesCreated += created

	if len(validServiceIDs) == 0 {
		return nil
	}

	subs := make([]model.ServiceSubscription, 0, len(organizations)*len(validServiceIDs))
	for _, org := range organizations {
		for _, serviceID := range validServiceIDs {
			subs = append(subs, model.ServiceSubscription{
				OrganizationID: org.ID,
				ServiceID:      serviceID,
				IsActive:       true,
				Metadata:       model.JSONMap{},
			})
		}
	}
	created, err = o.subscriptions.BulkCreate(ctx, subs)
	if err != nil {
		return err
	}
	stats.ServiceSubscriptionsCreated += created

	return nil
}
