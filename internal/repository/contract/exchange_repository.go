package contract

import (
	"context"

	"ai-videotutor-be/internal/entity"
	"ai-videotutor-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ExchangeRepository interface {
	Create(ctx context.Context, exchange *entity.Exchange) error
	CreateToolCalls(ctx context.Context, calls []*entity.ExchangeToolCall) error
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Exchange, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Exchange, error)
	FindToolCallsByExchangeIds(ctx context.Context, exchangeIds []uuid.UUID) ([]*entity.ExchangeToolCall, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
