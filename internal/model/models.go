// internal/model/models.go
package model

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Organization{},
		&Operator{},
		&OperatorOrganizationRole{},
		&OperatorServiceConfig{},
		&Service{},
		&ServiceSubscription{},
		&Account{},
		&AccountServiceLink{},
		&Metric{},
	)
}
