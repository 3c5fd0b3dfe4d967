// internal/repository/operator.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OperatorRepositoryIface interface {
	Create(ctx context.Context, operator *model.Operator) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error)
	FindAll(ctx context.Context) ([]*model.Operator, error)
	FindActive(ctx context.Context) ([]*model.Operator, error)
	HasServiceConfig(ctx context.Context, operatorID uuid.UUID, serviceID int64) (bool, error)
	CreateServiceConfig(ctx context.Context, cfg *model.OperatorServiceConfig) error
	BulkCreateOrganizationRoles(ctx context.Context, roles []model.OperatorOrganizationRole) (int64, error)
}

type OperatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) Create(ctx context.Context, operator *model.Operator) error {
	if err := r.db.WithContext(ctx).Create(operator).Error; err != nil {
		return fmt.Errorf("creating operator: %w", err)
	}
	return nil
}

func (r *OperatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error) {
	var operator model.Operator
	if err := r.db.WithContext(ctx).First(&operator, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("finding operator: %w", err)
	}
	return &operator, nil
}

func (r *OperatorRepository) FindAll(ctx context.Context) ([]*model.Operator, error) {
	var operators []*model.Operator
	if err := r.db.WithContext(ctx).Order("name").Find(&operators).Error; err != nil {
		return nil, fmt.Errorf("finding operators: %w", err)
	}
	return operators, nil
}

func (r *OperatorRepository) FindActive(ctx context.Context) ([]*model.Operator, error) {
	var operators []*model.Operator
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&operators).Error; err != nil {
		return nil, fmt.Errorf("finding active operators: %w", err)
	}
	return operators, nil
}

func (r *OperatorRepository) HasServiceConfig(ctx context.Context, operatorID uuid.UUID, serviceID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.OperatorServiceConfig{}).
		Where("operator_id = ? AND service_id = ?", operatorID, serviceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking operator service config: %w", err)
	}
	return count > 0, nil
}

func (r *OperatorRepository) CreateServiceConfig(ctx context.Context, cfg *model.OperatorServiceConfig) error {
	if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return fmt.Errorf("creating operator service config: %w", err)
	}
	return nil
}

// BulkCreateOrganizationRoles inserts the given roles, skipping rows whose
// (operator, organization) pair already exists. Conflicts are resolved at
// insert time, never raised, and do not count toward the returned total.
func (r *OperatorRepository) BulkCreateOrganizationRoles(ctx context.Context, roles []model.OperatorOrganizationRole) (int64, error) {
	if len(roles) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&roles)
	if result.Error != nil {
		return 0, fmt.Errorf("bulk creating operator organization roles: %w", result.Error)
	}
	return result.RowsAffected, nil
}
