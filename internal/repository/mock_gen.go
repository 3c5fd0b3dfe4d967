// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./account.go -destination=../mocks/mock_account_repository.go -package=mocks AccountRepositoryIface
//go:generate mockgen -source=./organization.go -destination=../mocks/mock_organization_repository.go -package=mocks OrganizationRepositoryIface
