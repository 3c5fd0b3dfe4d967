// internal/repository/account.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"gorm.io/gorm"
)

type AccountRepositoryIface interface {
	Begin(ctx context.Context) (Transaction, error) // For mocking support in tests

	Create(ctx context.Context, account *model.Account) error
	Update(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByExternalID(ctx context.Context, orgID uuid.UUID, accountType model.AccountType, externalID string) (*model.Account, error)
	FindByEmail(ctx context.Context, orgID uuid.UUID, accountType model.AccountType, email string) (*model.Account, error)
	BindExternalID(ctx context.Context, accountID uuid.UUID, externalID string) (bool, error)
	FindServiceLink(ctx context.Context, accountID uuid.UUID, serviceID int64) (*model.AccountServiceLink, error)
	UpsertServiceLink(ctx context.Context, link *model.AccountServiceLink) error
	FindByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Account, error)
}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Begin starts a new database transaction and returns a Transaction instance.
func (r *AccountRepository) Begin(ctx context.Context) (Transaction, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTransaction{tx: tx}, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("creating account: %w", domain.ErrIntegrityViolation)
		}
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, account *model.Account) error {
	result := r.db.WithContext(ctx).Save(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("updating account: %w", domain.ErrIntegrityViolation)
		}
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	result := r.db.WithContext(ctx).First(&account, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", result.Error)
	}
	return &account, nil
}

// FindByExternalID returns the single account carrying the external id within
// the organization and type. The partial unique index on non-blank external
// ids is what makes the match single: a second row with the same value cannot
// be inserted, so First never has to pick between candidates.
func (r *AccountRepository) FindByExternalID(ctx context.Context, orgID uuid.UUID, accountType model.AccountType, externalID string) (*model.Account, error) {
	var account model.Account
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND type = ? AND external_id = ?", orgID, accountType, externalID).
		First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account by external id: %w", result.Error)
	}
	return &account, nil
}

// FindByEmail returns the single account carrying the email within the
// organization and type, under the same partial unique index guarantee as
// FindByExternalID.
func (r *AccountRepository) FindByEmail(ctx context.Context, orgID uuid.UUID, accountType model.AccountType, email string) (*model.Account, error) {
	var account model.Account
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND type = ? AND email = ?", orgID, accountType, email).
		First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account by email: %w", result.Error)
	}
	return &account, nil
}

// BindExternalID sets the account's external_id only if it is currently
// blank. The guard lives in the WHERE clause so two concurrent binds cannot
// interleave: the first writer wins and the loser applies nothing. Returns
// whether the update was applied.
func (r *AccountRepository) BindExternalID(ctx context.Context, accountID uuid.UUID, externalID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND external_id = ''", accountID).
		Update("external_id", externalID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, fmt.Errorf("binding external id: %w", domain.ErrIntegrityViolation)
		}
		return false, fmt.Errorf("failed to bind external id: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *AccountRepository) FindServiceLink(ctx context.Context, accountID uuid.UUID, serviceID int64) (*model.AccountServiceLink, error) {
	var link model.AccountServiceLink
	result := r.db.WithContext(ctx).
		Where("account_id = ? AND service_id = ?", accountID, serviceID).
		First(&link)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service link: %w", result.Error)
	}
	return &link, nil
}

// UpsertServiceLink creates the link or replaces the roles and scope of the
// existing one for the (account, service) pair.
func (r *AccountRepository) UpsertServiceLink(ctx context.Context, link *model.AccountServiceLink) error {
	var existing model.AccountServiceLink
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND service_id = ?", link.AccountID, link.ServiceID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
				return fmt.Errorf("creating service link: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to find service link: %w", err)
	}

	existing.Roles = link.Roles
	existing.Scope = link.Scope
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return fmt.Errorf("updating service link: %w", err)
	}
	*link = existing
	return nil
}

func (r *AccountRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Account, error) {
	var accounts []*model.Account
	result := r.db.WithContext(ctx).Where("organization_id = ?", orgID).Find(&accounts)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", result.Error)
	}
	return accounts, nil
}
