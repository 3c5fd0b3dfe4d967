// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// Account-related errors
	ErrAccountNotFound = errors.New("account not found")

	// ErrIntegrityViolation means a write would break one of the conditional
	// uniqueness invariants on accounts. It indicates a defect in the caller
	// and must never be retried or suppressed.
	ErrIntegrityViolation = errors.New("integrity violation")

	// Organization-related errors
	ErrOrganizationNotFound = errors.New("organization not found")

	// Service-related errors
	ErrServiceNotFound      = errors.New("service not found")
	ErrSubscriptionNotFound = errors.New("service subscription not found")

	// Operator-related errors
	ErrOperatorNotFound = errors.New("operator not found")

	// ErrOperatorServiceConfigMissing is raised when an operator declares a
	// service in its auto-join policy without a matching OperatorServiceConfig.
	// The onboarder logs it and skips that one service.
	ErrOperatorServiceConfigMissing = errors.New("operator service config missing")
)
