// internal/service/identity.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
)

// IdentityResolver matches an incoming identity assertion to a known account.
//
// The external identifier is the only self-authenticating identifier: it
// originates from a federated login and, once bound, is immutable through
// this path. The email is attacker-controllable metadata in untrusted
// reports, so binding external_id to an email-matched account requires the
// caller to be trusted, applies only when the stored value is blank, and is
// guarded at the storage layer so concurrent binds cannot race.
type IdentityResolver struct {
	accounts repository.AccountRepositoryIface
	logger   *slog.Logger
	validate *validator.Validate
}

func NewIdentityResolver(accounts repository.AccountRepositoryIface, logger *slog.Logger) *IdentityResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityResolver{
		accounts: accounts,
		logger:   logger,
		validate: validator.New(),
	}
}

type ResolveInput struct {
	OrganizationID uuid.UUID         `validate:"required"`
	AccountType    model.AccountType `validate:"required"`
	ExternalID     string
	Email          string
	// TrustBinding is the caller's trust classification of the upstream
	// source. Only trusted callers may establish the external_id-to-email link.
	TrustBinding bool
}

// Resolve returns the account matching the assertion, or
// domain.ErrAccountNotFound when neither identifier matches.
func (r *IdentityResolver) Resolve(ctx context.Context, in ResolveInput) (*model.Account, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.ExternalID == "" && in.Email == "" {
		return nil, fmt.Errorf("%w: external_id or email is required", domain.ErrInvalidInput)
	}

	// Fast path: a matching external identifier is self-authenticating.
	if in.ExternalID != "" {
		account, err := r.accounts.FindByExternalID(ctx, in.OrganizationID, in.AccountType, in.ExternalID)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
	}

	if in.Email == "" {
		return nil, domain.ErrAccountNotFound
	}

	account, err := r.accounts.FindByEmail(ctx, in.OrganizationID, in.AccountType, in.Email)
	if err != nil {
		return nil, err
	}

	if in.TrustBinding && in.ExternalID != "" && account.ExternalID == "" {
		applied, err := r.accounts.BindExternalID(ctx, account.ID, in.ExternalID)
		if err != nil {
			return nil, err
		}
		if applied {
			account.ExternalID = in.ExternalID
			r.logger.Info("bound external id to account",
				"account_id", account.ID,
				"organization_id", in.OrganizationID,
				"account_type", in.AccountType)
		} else {
			// A concurrent trusted bind won; re-read to observe its value.
			// Losing is not an error: immutability after first set is the
			// desired outcome.
			account, err = r.accounts.FindByID(ctx, account.ID)
			if err != nil {
				return nil, err
			}
		}
	}

	return account, nil
}
