// internal/service/importer.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/suiteterritoriale/deploycenter/internal/domain"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
)

// OrganizationRecord is one row of the national organization dataset, already
// parsed by the import collaborator.
type OrganizationRecord struct {
	Name              string  `json:"libelle"`
	Type              string  `json:"type"`
	Siret             string  `json:"siret"`
	Siren             string  `json:"siren"`
	CodeInsee         string  `json:"code_insee"`
	CodePostal        string  `json:"code_postal"`
	Population        *int    `json:"population"`
	AdresseMessagerie string  `json:"adresse_messagerie"`
	SiteInternet      string  `json:"site_internet"`
	Telephone         string  `json:"telephone"`
}

// ImportStats summarizes one import run. AutoJoin carries the onboarder's
// creation counts for the same cycle.
type ImportStats struct {
	TotalProcessed int            `json:"total_processed"`
	Created        int            `json:"created"`
	Updated        int            `json:"updated"`
	Errors         int            `json:"errors"`
	ErrorsDetails  []string       `json:"errors_details,omitempty"`
	AutoJoin       *AutoJoinStats `json:"auto_join"`
}

// OrganizationImporter refreshes the organization dataset and then runs the
// auto-join onboarder over the result.
type OrganizationImporter struct {
	orgs      repository.OrganizationRepositoryIface
	onboarder *AutoJoinOnboarder
	logger    *slog.Logger
}

func NewOrganizationImporter(
	orgs repository.OrganizationRepositoryIface,
	onboarder *AutoJoinOnboarder,
	logger *slog.Logger,
) *OrganizationImporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrganizationImporter{
		orgs:      orgs,
		onboarder: onboarder,
		logger:    logger,
	}
}

// Import upserts organizations keyed by code_insee, falling back to siren.
// Existing organizations are only touched when forceUpdate is set. Row-level
// failures are counted and reported, not fatal. After the dataset is
// committed, the auto-join onboarder runs once.
func (i *OrganizationImporter) Import(ctx context.Context, records []OrganizationRecord, forceUpdate bool) (*ImportStats, error) {
	stats := &ImportStats{}

	for _, record := range records {
		if err := i.importRecord(ctx, record, forceUpdate, stats); err != nil {
			stats.Errors++
			stats.ErrorsDetails = append(stats.ErrorsDetails,
				fmt.Sprintf("organization %s: %v", record.Siret, err))
			i.logger.Error("failed to import organization",
				"siret", record.Siret, "error", err)
			continue
		}
		stats.TotalProcessed++
	}

	autoJoin, err := i.onboarder.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("running auto-join: %w", err)
	}
	stats.AutoJoin = autoJoin

	i.logger.Info("organization import completed",
		"total_processed", stats.TotalProcessed,
		"created", stats.Created,
		"updated", stats.Updated,
		"errors", stats.Errors)
	return stats, nil
}

func (i *OrganizationImporter) importRecord(ctx context.Context, record OrganizationRecord, forceUpdate bool, stats *ImportStats) error {
	if record.Name == "" {
		return fmt.Errorf("%w: missing name", domain.ErrInvalidInput)
	}

	orgType := model.OrganizationType(record.Type)
	if orgType == "" {
		orgType = model.OrgTypeCommune
	}

	existing, err := i.findExisting(ctx, record)
	if err != nil {
		return err
	}

	if existing == nil {
		org := &model.Organization{
			Name:              record.Name,
			Type:              orgType,
			Siret:             record.Siret,
			Siren:             record.Siren,
			CodeInsee:         record.CodeInsee,
			CodePostal:        record.CodePostal,
			Population:        record.Population,
			AdresseMessagerie: record.AdresseMessagerie,
			SiteInternet:      record.SiteInternet,
			Telephone:         record.Telephone,
		}
		if err := i.orgs.Create(ctx, org); err != nil {
			return err
		}
		stats.Created++
		return nil
	}

	if !forceUpdate {
		return nil
	}

	existing.Name = record.Name
	existing.Type = orgType
	existing.Siret = record.Siret
	existing.Siren = record.Siren
	existing.CodeInsee = record.CodeInsee
	existing.CodePostal = record.CodePostal
	if record.Population != nil {
		existing.Population = record.Population
	}
	existing.AdresseMessagerie = record.AdresseMessagerie
	existing.SiteInternet = record.SiteInternet
	existing.Telephone = record.Telephone
	if err := i.orgs.Update(ctx, existing); err != nil {
		return err
	}
	stats.Updated++
	return nil
}

func (i *OrganizationImporter) findExisting(ctx context.Context, record OrganizationRecord) (*model.Organization, error) {
	if record.CodeInsee != "" {
		org, err := i.orgs.FindByCodeInsee(ctx, record.CodeInsee)
		if err == nil {
			return org, nil
		}
		if !errors.Is(err, domain.ErrOrganizationNotFound) {
			return nil, err
		}
		return nil, nil
	}
	if record.Siren != "" {
		org, err := i.orgs.FindBySiren(ctx, record.Siren)
		if err == nil {
			return org, nil
		}
		if !errors.Is(err, domain.ErrOrganizationNotFound) {
			return nil, err
		}
	}
	return nil, nil
}
