package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-videotutor-be/internal/entity"
	"ai-videotutor-be/internal/repository/specification"
	"ai-videotutor-be/internal/repository/unitofwork"
	"ai-videotutor-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ConversationRepository())
	assert.NotNil(t, uow.ExchangeRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Conversation Repository", func(t *testing.T) {
		count, err := uow.ConversationRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Conversation count: %d", count)
	})

	t.Run("Transactional Exchange With Tool Calls", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()

		conversation := &entity.Conversation{
			Id:        uuid.New(),
			UserId:    userId,
			VideoId:   "integration-vid",
			Title:     "Integration test conversation",
			CreatedAt: time.Now(),
		}
		assert.NoError(t, uow.ConversationRepository().Create(ctx, conversation))

		txUow := uowFactory.NewUnitOfWork(ctx)
		assert.NoError(t, txUow.Begin(ctx))

		exchange := &entity.Exchange{
			Id:             uuid.New(),
			ConversationId: conversation.Id,
			UserText:       "What is recursion?",
			ResponseText:   "Recursion is a function calling itself.",
			CreatedAt:      time.Now(),
		}
		assert.NoError(t, txUow.ExchangeRepository().Create(ctx, exchange))

		toolCall := &entity.ExchangeToolCall{
			Id:         uuid.New(),
			ExchangeId: exchange.Id,
			ToolName:   "suggestVideo",
			Kind:       "reference_video",
			Payload:    datatypes.JSON(`{"type":"reference_video","video_id":"vid-1","title":"Recursion basics"}`),
			Position:   0,
			CreatedAt:  time.Now(),
		}
		assert.NoError(t, txUow.ExchangeRepository().CreateToolCalls(ctx, []*entity.ExchangeToolCall{toolCall}))
		assert.NoError(t, txUow.Commit())

		// Read back through specifications
		found, err := uow.ExchangeRepository().FindAll(ctx,
			specification.ByConversationID{ConversationID: conversation.Id},
			specification.OrderBy{Field: "created_at"},
		)
		assert.NoError(t, err)
		assert.Len(t, found, 1)

		calls, err := uow.ExchangeRepository().FindToolCallsByExchangeIds(ctx, []uuid.UUID{exchange.Id})
		assert.NoError(t, err)
		assert.Len(t, calls, 1)
		assert.Equal(t, "reference_video", calls[0].Kind)

		// Cleanup
		assert.NoError(t, uow.ExchangeRepository().DeleteByConversationId(ctx, conversation.Id))
		assert.NoError(t, uow.ConversationRepository().Delete(ctx, conversation.Id))
	})
}
