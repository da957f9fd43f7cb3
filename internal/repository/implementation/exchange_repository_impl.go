package implementation

import (
	"context"
	"errors"

	"ai-videotutor-be/internal/entity"
	"ai-videotutor-be/internal/repository/contract"
	"ai-videotutor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExchangeRepositoryImpl struct {
	db *gorm.DB
}

func NewExchangeRepository(db *gorm.DB) contract.ExchangeRepository {
	return &ExchangeRepositoryImpl{db: db}
}

func (r *ExchangeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ExchangeRepositoryImpl) Create(ctx context.Context, exchange *entity.Exchange) error {
	return r.db.WithContext(ctx).Create(exchange).Error
}

func (r *ExchangeRepositoryImpl) CreateToolCalls(ctx context.Context, calls []*entity.ExchangeToolCall) error {
	if len(calls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(calls).Error
}

func (r *ExchangeRepositoryImpl) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	// Tool calls cascade via FK; delete the exchanges themselves.
	return r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).Delete(&entity.Exchange{}).Error
}

func (r *ExchangeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Exchange, error) {
	var exchange entity.Exchange
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&exchange).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exchange, nil
}

func (r *ExchangeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Exchange, error) {
	var exchanges []*entity.Exchange
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&exchanges).Error; err != nil {
		return nil, err
	}
	return exchanges, nil
}

func (r *ExchangeRepositoryImpl) FindToolCallsByExchangeIds(ctx context.Context, exchangeIds []uuid.UUID) ([]*entity.ExchangeToolCall, error) {
	if len(exchangeIds) == 0 {
		return []*entity.ExchangeToolCall{}, nil
	}

	var calls []*entity.ExchangeToolCall
	err := r.db.WithContext(ctx).
		Where("exchange_id IN ?", exchangeIds).
		Order("position ASC").
		Find(&calls).Error
	if err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *ExchangeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&entity.Exchange{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
