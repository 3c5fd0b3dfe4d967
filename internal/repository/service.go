// internal/repository/service.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"gorm.io/gorm"
)

type ServiceRepositoryIface interface {
	Create(ctx context.Context, service *model.Service) error
	FindByID(ctx context.Context, id int64) (*model.Service, error)
	FindActive(ctx context.Context) ([]*model.Service, error)
}

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, service *model.Service) error {
	if err := r.db.WithContext(ctx).Create(service).Error; err != nil {
		return fmt.Errorf("creating service: %w", err)
	}
	return nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id int64) (*model.Service, error) {
	var service model.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("finding service: %w", err)
	}
	return &service, nil
}

func (r *ServiceRepository) FindActive(ctx context.Context) ([]*model.Service, error) {
	var services []*model.Service
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("finding active services: %w", err)
	}
	return services, nil
}
