// internal/model/service.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceCategory selects which admin rule chain applies to a service.
type ServiceCategory string

const (
	// CategoryStandard services only honor explicit roles.
	CategoryStandard ServiceCategory = "standard"
	// CategoryExtendedAdmin services (messaging/collaboration style) add
	// contact-email matching and population-based defaults.
	CategoryExtendedAdmin ServiceCategory = "extended_admin"
)

// Service config keys.
const (
	// ConfigAutoAdminPopulationThreshold overrides the population cutoff
	// under which every member of an organization defaults to admin.
	ConfigAutoAdminPopulationThreshold = "auto_admin_population_threshold"
	// ConfigTrustedAccountBinding marks a service whose usage reports are
	// allowed to bind an external_id to an email-matched account.
	ConfigTrustedAccountBinding = "trusted_account_binding"
)

// DefaultPopulationThreshold applies when a service does not configure one.
const DefaultPopulationThreshold = 3500

// extendedAdminTypes lists the service types that get the extended admin
// chain. Selection is by type, never by the mere presence of auto_admin
// metadata on a subscription.
var extendedAdminTypes = map[string]bool{
	"messages": true,
	"visio":    true,
	"equipes":  true,
}

type Service struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Type        string  `gorm:"type:text;not null" json:"type"`
	Name        string  `gorm:"type:text;not null" json:"name"`
	URL         string  `gorm:"type:text" json:"url"`
	Description string  `gorm:"type:text" json:"description"`
	Config      JSONMap `gorm:"type:text;not null;default:'{}'" json:"-"`
	IsActive    bool    `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category returns the admin rule chain category for the service.
func (s *Service) Category() ServiceCategory {
	if extendedAdminTypes[s.Type] {
		return CategoryExtendedAdmin
	}
	return CategoryStandard
}

// PopulationThreshold returns the configured auto-admin population cutoff,
// falling back to the default when unset.
func (s *Service) PopulationThreshold() int {
	if v, ok := s.Config.Int(ConfigAutoAdminPopulationThreshold); ok {
		return v
	}
	return DefaultPopulationThreshold
}

// TrustedAccountBinding reports whether usage reports from this service may
// backfill external identifiers on email-matched accounts.
func (s *Service) TrustedAccountBinding() bool {
	return s.Config.Bool(ConfigTrustedAccountBinding)
}

// Subscription metadata keys and values.
const (
	MetadataAutoAdmin = "auto_admin"
	AutoAdminAll      = "all"
	AutoAdminManual   = "manual"
)

// ServiceSubscription links an organization to a service. One row per
// (organization, service) pair; bulk creation ignores conflicts so the
// auto-join onboarder can re-run safely.
type ServiceSubscription struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_organization_service" json:"organization_id"`
	ServiceID      int64     `gorm:"not null;uniqueIndex:uq_organization_service" json:"service_id"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	Metadata       JSONMap   `gorm:"type:text;not null;default:'{}'" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Service      Service      `gorm:"foreignKey:ServiceID" json:"-"`
}

// BeforeCreate hook for ServiceSubscription
func (s *ServiceSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// AutoAdmin returns the explicit auto_admin choice recorded on the
// subscription and whether one is present at all. When present it overrides
// the population default in both directions.
func (s *ServiceSubscription) AutoAdmin() (string, bool) {
	v := s.Metadata.String(MetadataAutoAdmin)
	return v, v != ""
}
