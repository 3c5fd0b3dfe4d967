// internal/model/metric.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Metric is the latest reported value of a usage counter for a service on an
// organization. One row per (service, organization, key); ingestion upserts.
type Metric struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID      int64     `gorm:"not null;uniqueIndex:uq_metric_key;index" json:"service_id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_metric_key;index" json:"organization_id"`
	Key            string    `gorm:"type:text;not null;uniqueIndex:uq_metric_key" json:"key"`
	Value          float64   `gorm:"not null" json:"value"`
	Timestamp      time.Time `gorm:"not null;index" json:"timestamp"`

	Service      Service      `gorm:"foreignKey:ServiceID" json:"-"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

// BeforeCreate hook for Metric
func (m *Metric) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
