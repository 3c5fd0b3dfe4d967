// internal/service/entitlement.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
)

// Resolve levels, in priority order. The level names which rule admitted or
// denied, for audit.
const (
	LevelOrganization = "organization"
	LevelService      = "service"
	LevelEmailContact = "email_contact"
	LevelAutoAdmin    = "auto_admin"
	LevelPopulation   = "population"
	LevelNone         = "none"
)

// AdminDecision is the outcome of the admin entitlement chain.
type AdminDecision struct {
	IsAdmin bool   `json:"is_admin"`
	Level   string `json:"level"`
}

// adminContext carries everything a rule may inspect. The service link is
// fetched lazily since most decisions never reach it.
type adminContext struct {
	account      *model.Account
	subscription *model.ServiceSubscription
	organization *model.Organization
	service      *model.Service

	accounts    repository.AccountRepositoryIface
	link        *model.AccountServiceLink
	linkFetched bool
}

func (c *adminContext) serviceLink(ctx context.Context) (*model.AccountServiceLink, error) {
	if c.linkFetched {
		return c.link, nil
	}
	link, err := c.accounts.FindServiceLink(ctx, c.account.ID, c.service.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		link = nil
	}
	c.link = link
	c.linkFetched = true
	return c.link, nil
}

// adminRule inspects the context and either decides (non-nil) or abstains
// (nil), letting the next rule run. The chain short-circuits on the first
// decision.
type adminRule func(ctx context.Context, ac *adminContext) (*AdminDecision, error)

// AdminEntitlementResolver decides whether an account administers a service
// subscription. Each service category maps to an ordered rule list; the
// extended chain is the base chain with contact-email and auto-admin rules
// appended, kept as data rather than inheritance so the ordering stays
// explicit and testable.
type AdminEntitlementResolver struct {
	accounts repository.AccountRepositoryIface
	chains   map[model.ServiceCategory][]adminRule
	logger   *slog.Logger
}

func NewAdminEntitlementResolver(accounts repository.AccountRepositoryIface, logger *slog.Logger) *AdminEntitlementResolver {
	if logger == nil {
		logger = slog.Default()
	}

	base := []adminRule{
		organizationRoleRule,
		serviceRoleRule,
	}
	extended := append(append([]adminRule{}, base...),
		emailContactRule,
		autoAdminOverrideRule,
		populationFallbackRule,
	)

	return &AdminEntitlementResolver{
		accounts: accounts,
		chains: map[model.ServiceCategory][]adminRule{
			model.CategoryStandard:      base,
			model.CategoryExtendedAdmin: extended,
		},
		logger: logger,
	}
}

// IsAdmin runs the rule chain selected by the service's category and returns
// the first decision. When every rule abstains the account is not an admin.
func (r *AdminEntitlementResolver) IsAdmin(
	ctx context.Context,
	account *model.Account,
	subscription *model.ServiceSubscription,
	organization *model.Organization,
	service *model.Service,
) (AdminDecision, error) {
	if account == nil || organization == nil || service == nil {
		return AdminDecision{}, fmt.Errorf("%w: account, organization and service are required", domain.ErrInvalidInput)
	}

	ac := &adminContext{
		account:      account,
		subscription: subscription,
		organization: organization,
		service:      service,
		accounts:     r.accounts,
	}

	chain, ok := r.chains[service.Category()]
	if !ok {
		chain = r.chains[model.CategoryStandard]
	}

	for _, rule := range chain {
		decision, err := rule(ctx, ac)
		if err != nil {
			return AdminDecision{}, err
		}
		if decision != nil {
			return *decision, nil
		}
	}

	return AdminDecision{IsAdmin: false, Level: LevelNone}, nil
}

// organizationRoleRule admits accounts holding the organization-wide "admin"
// role. Checked before the service role only for audit clarity.
func organizationRoleRule(_ context.Context, ac *adminContext) (*AdminDecision, error) {
	if ac.account.Roles.Contains("admin") {
		return &AdminDecision{IsAdmin: true, Level: LevelOrganization}, nil
	}
	return nil, nil
}

// serviceRoleRule admits accounts whose per-service link carries "admin".
func serviceRoleRule(ctx context.Context, ac *adminContext) (*AdminDecision, error) {
	link, err := ac.serviceLink(ctx)
	if err != nil {
		return nil, err
	}
	if link != nil && link.Roles.Contains("admin") {
		return &AdminDecision{IsAdmin: true, Level: LevelService}, nil
	}
	return nil, nil
}

// emailContactRule admits the organization's declared formal contact.
// Exact match on the stored value.
// TODO: normalize adresse_messagerie case at import time.
func emailContactRule(_ context.Context, ac *adminContext) (*AdminDecision, error) {
	if ac.account.Email != "" && ac.account.Email == ac.organization.AdresseMessagerie {
		return &AdminDecision{IsAdmin: true, Level: LevelEmailContact}, nil
	}
	return nil, nil
}

// autoAdminOverrideRule applies an operator's explicit choice. Both values
// decide unconditionally: the population fallback is never consulted once a
// choice has been persisted, even if population later drops below threshold.
func autoAdminOverrideRule(_ context.Context, ac *adminContext) (*AdminDecision, error) {
	if ac.subscription == nil {
		return nil, nil
	}
	choice, ok := ac.subscription.AutoAdmin()
	if !ok {
		return nil, nil
	}
	switch choice {
	case model.AutoAdminAll:
		return &AdminDecision{IsAdmin: true, Level: LevelAutoAdmin}, nil
	case model.AutoAdminManual:
		return &AdminDecision{IsAdmin: false, Level: LevelNone}, nil
	}
	return nil, nil
}

// populationFallbackRule pre-populates behavior before any explicit choice:
// small organizations default every member to admin. Unknown population
// never admits.
func populationFallbackRule(_ context.Context, ac *adminContext) (*AdminDecision, error) {
	pop := ac.organization.Population
	if pop != nil && *pop < ac.service.PopulationThreshold() {
		return &AdminDecision{IsAdmin: true, Level: LevelPopulation}, nil
	}
	return nil, nil
}
