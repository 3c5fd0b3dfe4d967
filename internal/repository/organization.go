// internal/repository/organization.go
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

type OrganizationRepositoryIface interface {
	Create(ctx context.Context, org *model.Organization) error
	Update(ctx context.Context, org *model.Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	FindByCodeInsee(ctx context.Context, codeInsee string) (*model.Organization, error)
	FindBySiren(ctx context.Context, siren string) (*model.Organization, error)
	FindByTypes(ctx context.Context, types []model.OrganizationType) ([]*model.Organization, error)
}

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return fmt.Errorf("creating organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Save(org).Error; err != nil {
		return fmt.Errorf("updating organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) FindByCodeInsee(ctx context.Context, codeInsee string) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "code_insee = ?", codeInsee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization by code insee: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) FindBySiren(ctx context.Context, siren string) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "siren = ?", siren).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization by siren: %w", err)
	}
	return &org, nil
}

// FindByTypes returns every organization whose type is in the given set,
// not only recently imported ones. The auto-join onboarder is comprehensive
// by design.
func (r *OrganizationRepository) FindByTypes(ctx context.Context, types []model.OrganizationType) ([]*model.Organization, error) {
	var orgs []*model.Organization
	if err := r.db.WithContext(ctx).Where("type IN ?", types).Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("finding organizations by type: %w", err)
	}
	return orgs, nil
}
