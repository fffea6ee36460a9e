package usecase

import (
	"context"

	"event-milestones/internal/domain"
)

// TransactionRepository defines the interface for fetching an event's transactions.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go TransactionRepository
type TransactionRepository interface {
	GetTransactions(ctx context.Context, source string) ([]domain.Transaction, error)
}
