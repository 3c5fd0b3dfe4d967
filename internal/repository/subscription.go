// internal/repository/subscription.go
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

type SubscriptionRepositoryIface interface {
	Create(ctx context.Context, sub *model.ServiceSubscription) error
	Update(ctx context.Context, sub *model.ServiceSubscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceSubscription, error)
	FindByOrganizationAndService(ctx context.Context, orgID uuid.UUID, serviceID int64) (*model.ServiceSubscription, error)
	BulkCreate(ctx context.Context, subs []model.ServiceSubscription) (int64, error)
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.ServiceSubscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("creating subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *model.ServiceSubscription) error {
	if err := r.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("updating subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceSubscription, error) {
	var sub model.ServiceSubscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("finding subscription: %w", err)
	}
	return &sub, nil
}

func (r *SubscriptionRepository) FindByOrganizationAndService(ctx context.Context, orgID uuid.UUID, serviceID int64) (*model.ServiceSubscription, error) {
	var sub model.ServiceSubscription
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND service_id = ?", orgID, serviceID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("finding subscription: %w", err)
	}
	return &sub, nil
}

// BulkCreate inserts subscriptions, leaving pre-existing (organization,
// service) rows untouched. An existing row is never updated here, so a
// manually deactivated subscription stays deactivated across onboarder runs.
func (r *SubscriptionRepository) BulkCreate(ctx context.Context, subs []model.ServiceSubscription) (int64, error) {
	if len(subs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&subs)
	if result.Error != nil {
		return 0, fmt.Errorf("bulk creating subscriptions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
