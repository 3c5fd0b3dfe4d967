// internal/model/organization.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationType string

const (
	OrgTypeCommune     OrganizationType = "commune"
	OrgTypeEPCI        OrganizationType = "epci"
	OrgTypeDepartement OrganizationType = "departement"
	OrgTypeRegion      OrganizationType = "region"
	OrgTypeOther       OrganizationType = "other"
)

// Organization represents a collectivité from the imported national dataset.
// The resolution engine treats it as read-only; the periodic import owns it.
type Organization struct {
	ID   uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name string           `gorm:"type:text;not null" json:"name"`
	Type OrganizationType `gorm:"type:text;not null;default:'commune';index" json:"type"`

	// Administrative codes
	Siret      string `gorm:"type:text;index" json:"siret"`
	Siren      string `gorm:"type:text;index" json:"siren"`
	CodeInsee  string `gorm:"type:text;index" json:"code_insee"`
	CodePostal string `gorm:"type:text" json:"code_postal"`

	// Population from the latest INSEE data; nil when unknown. Unknown
	// population never grants the population-based admin default.
	Population *int `gorm:"" json:"population"`

	// AdresseMessagerie is the organization's declared contact email from
	// Service-Public.fr. A matching account email grants implicit admin on
	// extended-admin services.
	AdresseMessagerie string `gorm:"type:text" json:"adresse_messagerie"`

	SiteInternet string `gorm:"type:text" json:"site_internet"`
	Telephone    string `gorm:"type:text" json:"telephone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook for Organization
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
