// internal/model/operator.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleManages is the nature of the link auto-join establishes between an
// operator and the organizations it provisions.
const RoleManages = "manages"

// AutoJoinConfig is the operator's declarative auto-join policy: which
// organization types to match and which services to subscribe them to.
// It is never exposed through any outward-facing representation.
type AutoJoinConfig struct {
	OrganizationTypes []OrganizationType `json:"organization_types"`
	ServiceIDs        []int64            `json:"service_ids"`
}

// Enabled reports whether the policy matches anything at all.
func (c AutoJoinConfig) Enabled() bool {
	return len(c.OrganizationTypes) > 0 && len(c.ServiceIDs) > 0
}

// Scan implements the sql.Scanner interface
func (c *AutoJoinConfig) Scan(value interface{}) error {
	if value == nil {
		*c = AutoJoinConfig{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %T", value, c)
	}

	if len(data) == 0 {
		*c = AutoJoinConfig{}
		return nil
	}
	return json.Unmarshal(data, c)
}

// Value implements the driver.Valuer interface
func (c AutoJoinConfig) Value() (driver.Value, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Operator is a meta-organization that manages organizations and deploys
// services onto them.
type Operator struct {
	ID       uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name     string         `gorm:"type:text;not null" json:"name"`
	URL      string         `gorm:"type:text" json:"url"`
	IsActive bool           `gorm:"not null;default:true;index" json:"is_active"`
	AutoJoin AutoJoinConfig `gorm:"type:text;not null;default:'{}'" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook for Operator
func (o *Operator) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OperatorOrganizationRole links an operator to an organization it manages.
// At most one link per (operator, organization) pair; bulk creation is
// conflict-tolerant so auto-join re-runs are no-ops.
type OperatorOrganizationRole struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OperatorID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_operator_organization" json:"operator_id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_operator_organization" json:"organization_id"`
	Role           string    `gorm:"type:text;not null;default:'manages'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Operator     Operator     `gorm:"foreignKey:OperatorID" json:"-"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

// BeforeCreate hook for OperatorOrganizationRole
func (r *OperatorOrganizationRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Role == "" {
		r.Role = RoleManages
	}
	return nil
}

// OperatorServiceConfig records that an operator is set up to deploy a
// service. Its existence is the precondition for granting that service
// through auto-join.
type OperatorServiceConfig struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OperatorID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_operator_service" json:"operator_id"`
	ServiceID       int64     `gorm:"not null;uniqueIndex:uq_operator_service" json:"service_id"`
	DisplayPriority int       `gorm:"not null;default:0" json:"display_priority"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Operator Operator `gorm:"foreignKey:OperatorID" json:"-"`
	Service  Service  `gorm:"foreignKey:ServiceID" json:"-"`
}

// BeforeCreate hook for OperatorServiceConfig
func (c *OperatorServiceConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
