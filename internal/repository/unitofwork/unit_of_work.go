package unitofwork

import (
	"context"

	"ai-videotutor-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationRepository() contract.ConversationRepository
	ExchangeRepository() contract.ExchangeRepository
}
