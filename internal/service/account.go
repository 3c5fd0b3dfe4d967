// internal/service/account.go
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

// AccountService covers operator-facing provisioning: upserts through the
// identity resolver and explicit role management.
type AccountService struct {
	accounts      repository.AccountRepositoryIface
	organizations repository.OrganizationRepositoryIface
	identity      *IdentityResolver
	validate      *validator.Validate
}

func NewAccountService(
	accounts repository.AccountRepositoryIface,
	organizations repository.OrganizationRepositoryIface,
	identity *IdentityResolver,
) *AccountService {
	return &AccountService{
		accounts:      accounts,
		organizations: organizations,
		identity:      identity,
		validate:      validator.New(),
	}
}

type UpsertAccountInput struct {
	OrganizationID uuid.UUID         `json:"organization_id" validate:"required"`
	Type           model.AccountType `json:"type" validate:"required"`
	ExternalID     string            `json:"external_id"`
	Email          string            `json:"email" validate:"omitempty,email"`
	Roles          []string          `json:"roles"`
}

// Upsert creates the account or updates the matched one instead of creating
// a duplicate. Provisioning is a trusted path, so a blank stored external_id
// may be backfilled here. Returns whether a new account was created.
func (s *AccountService) Upsert(ctx context.Context, in UpsertAccountInput) (*model.Account, bool, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if _, err := s.organizations.FindByID(ctx, in.OrganizationID); err != nil {
		return nil, false, err
	}

	// Start transaction
	tx, err := s.accounts.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := s.identity.Resolve(ctx, ResolveInput{
		OrganizationID: in.OrganizationID,
		AccountType:    in.Type,
		ExternalID:     in.ExternalID,
		Email:          in.Email,
		TrustBinding:   true,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, false, err
		}
		account := &model.Account{
			OrganizationID: in.OrganizationID,
			Type:           in.Type,
			ExternalID:     in.ExternalID,
			Email:          in.Email,
			Roles:          model.Roles(in.Roles),
		}
		if account.Roles == nil {
			account.Roles = model.Roles{}
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("committing transaction: %w", err)
		}
		return account, true, nil
	}

	if in.Roles != nil {
		existing.Roles = model.Roles(in.Roles)
	}
	if existing.Email == "" && in.Email != "" {
		existing.Email = in.Email
	}
	if err := s.accounts.Update(ctx, existing); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("committing transaction: %w", err)
	}
	return existing, false, nil
}

type SetServiceRolesInput struct {
	AccountID uuid.UUID     `json:"account_id" validate:"required"`
	ServiceID int64         `json:"service_id" validate:"required"`
	Roles     []string      `json:"roles"`
	Scope     model.JSONMap `json:"scope"`
}

// SetServiceRoles replaces the per-service roles of the account for one
// service, creating the link on first use.
func (s *AccountService) SetServiceRoles(ctx context.Context, in SetServiceRolesInput) (*model.AccountServiceLink, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if _, err := s.accounts.FindByID(ctx, in.AccountID); err != nil {
		return nil, err
	}

	link := &model.AccountServiceLink{
		AccountID: in.AccountID,
		ServiceID: in.ServiceID,
		Roles:     model.Roles(in.Roles),
		Scope:     in.Scope,
	}
	if link.Roles == nil {
		link.Roles = model.Roles{}
	}
	if link.Scope == nil {
		link.Scope = model.JSONMap{}
	}
	if err := s.accounts.UpsertServiceLink(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// ListByOrganization returns all accounts of the organization.
func (s *AccountService) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Account, error) {
	if _, err := s.organizations.FindByID(ctx, orgID); err != nil {
		return nil, err
	}
	return s.accounts.FindByOrganization(ctx, orgID)
}
