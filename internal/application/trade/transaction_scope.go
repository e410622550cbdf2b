package trade

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories that
// order placement and cancellation touch. Stock changes and the order row
// are committed or rolled back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() trade.OrderRepository
	// StockRepo returns the stock repository scoped to the current transaction
	StockRepo() catalog.StockRepository
}

// NoOpTransactionScope runs the function against plain repositories.
// It is used by unit tests that do not need rollback.
type NoOpTransactionScope struct {
	orderRepo trade.OrderRepository
	stockRepo catalog.StockRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(orderRepo trade.OrderRepository, stockRepo catalog.StockRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, stockRepo: stockRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

// StockRepo returns the stock repository.
func (s *NoOpTransactionScope) StockRepo() catalog.StockRepository {
	return s.stockRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
