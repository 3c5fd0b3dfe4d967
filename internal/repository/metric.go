// internal/repository/metric.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetricRepositoryIface interface {
	Upsert(ctx context.Context, metric *model.Metric) error
	FindByOrganization(ctx context.Context, orgID uuid.UUID, serviceID int64) ([]*model.Metric, error)
}

type MetricRepository struct {
	db *gorm.DB
}

func NewMetricRepository(db *gorm.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// Upsert records the metric, replacing the previous value for the same
// (service, organization, key).
func (r *MetricRepository) Upsert(ctx context.Context, metric *model.Metric) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "service_id"}, {Name: "organization_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "timestamp"}),
		}).
		Create(metric)
	if result.Error != nil {
		return fmt.Errorf("upserting metric: %w", result.Error)
	}
	return nil
}

func (r *MetricRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID, serviceID int64) ([]*model.Metric, error) {
	var metrics []*model.Metric
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND service_id = ?", orgID, serviceID).
		Order("key").
		Find(&metrics).Error
	if err != nil {
		return nil, fmt.Errorf("finding metrics: %w", err)
	}
	return metrics, nil
}
