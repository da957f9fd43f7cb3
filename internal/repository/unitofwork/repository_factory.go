package unitofwork

import "context"

// RepositoryFactory creates a UnitOfWork scoped to a single request so
// the exchange and tool call writes of a committed turn share one
// transaction.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
