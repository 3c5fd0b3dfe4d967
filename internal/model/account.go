// internal/model/account.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountType string

const (
	AccountTypeUser    AccountType = "user"
	AccountTypeMailbox AccountType = "mailbox"
)

// Account represents a person or mailbox inside one organization.
//
// Identity invariants, enforced by partial unique indexes: within a
// (type, organization) scope at most one account may carry a given non-blank
// external_id, and at most one a given non-blank email. Blank values are
// exempt so accounts created from partial information can coexist.
type Account struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:uq_account_external_id,where:external_id <> '';uniqueIndex:uq_account_email,where:email <> ''" json:"organization_id"`
	Type           AccountType `gorm:"type:text;not null;default:'user';uniqueIndex:uq_account_external_id,where:external_id <> '';uniqueIndex:uq_account_email,where:email <> ''" json:"type"`

	// ExternalID is the opaque subject identifier issued by the identity
	// federation at first login. Once set it is immutable through the
	// resolution path.
	ExternalID string `gorm:"type:text;not null;default:'';uniqueIndex:uq_account_external_id,where:external_id <> ''" json:"external_id"`

	Email string `gorm:"type:text;not null;default:'';uniqueIndex:uq_account_email,where:email <> ''" json:"email"`

	// Roles are organization-wide. "admin" here grants admin on every
	// subscribed service.
	Roles Roles `gorm:"type:text;not null;default:'{}'" json:"roles"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Organization Organization         `gorm:"foreignKey:OrganizationID" json:"-"`
	ServiceLinks []AccountServiceLink `gorm:"foreignKey:AccountID" json:"-"`
}

// BeforeCreate hook for Account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Type == "" {
		a.Type = AccountTypeUser
	}
	return nil
}

// AccountServiceLink attaches per-service roles to an account. One link per
// (account, service) pair; scope optionally narrows where the roles apply,
// e.g. {"domains": [...]} for mail domain admins.
type AccountServiceLink struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_account_service" json:"account_id"`
	ServiceID int64     `gorm:"not null;uniqueIndex:uq_account_service" json:"service_id"`
	Roles     Roles     `gorm:"type:text;not null;default:'{}'" json:"roles"`
	Scope     JSONMap   `gorm:"type:text;not null;default:'{}'" json:"scope"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`
	Service Service `gorm:"foreignKey:ServiceID" json:"-"`
}

// BeforeCreate hook for AccountServiceLink
func (l *AccountServiceLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
