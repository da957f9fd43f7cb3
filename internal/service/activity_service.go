package service

import (
	"context"
	"strings"
	"time"

	"ai-videotutor-be/internal/constant"
	"ai-videotutor-be/internal/pkg/logger"
	"ai-videotutor-be/internal/repository/specification"
	"ai-videotutor-be/internal/repository/unitofwork"
	"ai-videotutor-be/pkg/events"
	pktNats "ai-videotutor-be/pkg/nats"

	"github.com/google/uuid"
)

// ActivityService listens on the event bus and keeps conversation metadata
// fresh without blocking the request path: bumping updated_at on every
// committed turn and promoting the first user message to the title.
type ActivityService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory, sub *pktNats.Subscriber, log logger.ILogger) *ActivityService {
	return &ActivityService{
		uowFactory: uowFactory,
		subscriber: sub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *ActivityService) Start() {
	err := s.subscriber.Subscribe("events."+constant.EventTurnCommitted, "tutor-activity-worker", s.handleTurnCommitted)
	if err != nil {
		s.logger.Error("ActivityService", "Failed to start activity subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("ActivityService", "Activity service started", nil)
}

func (s *ActivityService) handleTurnCommitted(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	idStr, _ := payload["conversation_id"].(string)
	conversationId, err := uuid.Parse(idStr)
	if err != nil {
		s.logger.Warn("ActivityService", "Event without a usable conversation_id", map[string]interface{}{"payload": payload})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return err
	}
	if conversation == nil {
		return nil // deleted in the meantime
	}

	now := time.Now()
	conversation.UpdatedAt = &now

	if conversation.Title == constant.DefaultConversationTitle {
		if userText, _ := payload["user_text"].(string); userText != "" {
			conversation.Title = truncateTitle(userText)
		}
	}

	return uow.ConversationRepository().Update(ctx, conversation)
}

func truncateTitle(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= constant.TitleMaxLen {
		return s
	}
	return string(runes[:constant.TitleMaxLen-1]) + "…"
}
