package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-videotutor-be/internal/dto"
	"ai-videotutor-be/internal/mapper"
	"ai-videotutor-be/internal/model"
	"ai-videotutor-be/internal/repository/memory"
	"ai-videotutor-be/pkg/stream"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	sessionRepo *memory.SessionRepository
	delivery    UpdateDelivery
	mapper      *mapper.TutorMapper
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sessionRepo *memory.SessionRepository,
	delivery UpdateDelivery,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		sessionRepo: sessionRepo,
		delivery:    delivery,
		mapper:      mapper.NewTutorMapper(),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage re-reads the session and pushes a fresh decoded view.
// The push carries full state, so a dropped or reordered message is healed
// by the next one.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishStreamUpdateMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal stream update message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	session, found := cs.sessionRepo.Get(payload.ConversationId.String())
	if !found {
		// Session evicted between append and push. The next append rebuilds
		// it; nothing to do here.
		msg.Ack()
		return
	}

	segments := stream.Normalize(stream.Decode(session.Buffer))

	exchangeId := payload.ExchangeId
	update := model.TutorUpdate{
		Type:           model.UpdateTypeSegments,
		ConversationId: payload.ConversationId,
		ExchangeId:     &exchangeId,
		Data: dto.AppendChunkResponse{
			ConversationId: payload.ConversationId,
			ExchangeId:     payload.ExchangeId,
			Segments:       cs.mapper.ToSegmentDTOs(segments),
			Drawer:         cs.mapper.ToDrawerDTO(session.Drawer, false),
		},
	}

	if cs.delivery != nil {
		cs.delivery.Send(payload.UserId, update)
	}

	msg.Ack()
}
