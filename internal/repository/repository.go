// internal/repository/repository.go
package repository

import (
	"log/slog"

	"gorm.io/gorm"
)

// Transaction is the commit/rollback seam handed to services whose write
// sequences must land together, such as the account upsert's resolve-then-
// write pass.
type Transaction interface {
	Commit() error
	Rollback() error
}

// gormTransaction adapts a gorm transaction to the Transaction seam.
type gormTransaction struct {
	tx *gorm.DB
}

// Commit finalizes the transaction.
func (t *gormTransaction) Commit() error {
	return t.tx.Commit().Error
}

// Rollback reverts the transaction.
func (t *gormTransaction) Rollback() error {
	slog.Warn("Rolling back transaction")
	return t.tx.Rollback().Error
}
