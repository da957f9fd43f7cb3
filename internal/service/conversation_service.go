package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-videotutor-be/internal/constant"
	"ai-videotutor-be/internal/dto"
	"ai-videotutor-be/internal/entity"
	"ai-videotutor-be/internal/mapper"
	"ai-videotutor-be/internal/model"
	"ai-videotutor-be/internal/pkg/logger"
	"ai-videotutor-be/internal/repository/memory"
	"ai-videotutor-be/internal/repository/specification"
	"ai-videotutor-be/internal/repository/unitofwork"
	"ai-videotutor-be/pkg/drawer"
	"ai-videotutor-be/pkg/events"
	pktNats "ai-videotutor-be/pkg/nats"
	"ai-videotutor-be/pkg/store"
	"ai-videotutor-be/pkg/stream"
	"ai-videotutor-be/pkg/toolcall"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UpdateDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type UpdateDelivery interface {
	Send(userID uuid.UUID, update model.TutorUpdate)
}

type IConversationService interface {
	CreateConversation(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error)
	GetAllConversations(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllConversationsResponse, error)
	GetExchangeHistory(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) ([]*dto.GetExchangeHistoryResponse, error)
	AppendChunk(ctx context.Context, userId uuid.UUID, req *dto.AppendChunkRequest) (*dto.AppendChunkResponse, error)
	CompleteTurn(ctx context.Context, userId uuid.UUID, req *dto.CompleteTurnRequest) (*dto.CompleteTurnResponse, error)
	GetDrawer(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.DrawerDTO, error)
	ClearHistory(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) error
	DeleteConversation(ctx context.Context, userId uuid.UUID, req *dto.DeleteConversationRequest) error
}

type conversationService struct {
	uowFactory       unitofwork.RepositoryFactory
	sessionRepo      *memory.SessionRepository
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	delivery         UpdateDelivery
	mapper           *mapper.TutorMapper
	logger           logger.ILogger
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	delivery UpdateDelivery,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		uowFactory:       uowFactory,
		sessionRepo:      sessionRepo,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		delivery:         delivery,
		mapper:           mapper.NewTutorMapper(),
		logger:           log,
	}
}

func (cs *conversationService) CreateConversation(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	title := req.Title
	if title == "" {
		title = constant.DefaultConversationTitle
	}

	conversation := entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		VideoId:   req.VideoId,
		Title:     title,
		CreatedAt: time.Now(),
	}

	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}

	// Seed the live session immediately so the first chunk does not pay a
	// DB round trip.
	cs.sessionRepo.Save(store.NewSession(conversation.Id.String(), userId.String(), req.VideoId))

	cs.publishEvent(ctx, constant.EventConversationNew, map[string]interface{}{
		"conversation_id": conversation.Id,
		"user_id":         userId,
		"video_id":        req.VideoId,
	})

	return &dto.CreateConversationResponse{Id: conversation.Id}, nil
}

func (cs *conversationService) GetAllConversations(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllConversationsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetAllConversationsResponse, 0, len(conversations))
	for _, c := range conversations {
		res = append(res, &dto.GetAllConversationsResponse{
			Id:        c.Id,
			VideoId:   c.VideoId,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return res, nil
}

func (cs *conversationService) GetExchangeHistory(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) ([]*dto.GetExchangeHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := cs.findOwned(ctx, uow, userId, conversationId)
	if err != nil {
		return nil, err
	}

	exchanges, err := uow.ExchangeRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversation.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(exchanges))
	for _, e := range exchanges {
		ids = append(ids, e.Id)
	}

	toolCalls, err := uow.ExchangeRepository().FindToolCallsByExchangeIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byExchange := make(map[uuid.UUID][]dto.ToolCallDTO)
	for _, tc := range toolCalls {
		byExchange[tc.ExchangeId] = append(byExchange[tc.ExchangeId], dto.ToolCallDTO{
			ToolName: tc.ToolName,
			Kind:     tc.Kind,
			Payload:  json.RawMessage(tc.Payload),
		})
	}

	res := make([]*dto.GetExchangeHistoryResponse, 0, len(exchanges))
	for _, e := range exchanges {
		res = append(res, &dto.GetExchangeHistoryResponse{
			Id:        e.Id,
			UserText:  e.UserText,
			Response:  e.ResponseText,
			ToolCalls: byExchange[e.Id],
			CreatedAt: e.CreatedAt,
		})
	}
	return res, nil
}

// AppendChunk appends one raw chunk to the conversation's buffer and
// re-decodes the whole thing. The decoded view replaces, never patches,
// whatever the previous chunk produced.
func (cs *conversationService) AppendChunk(ctx context.Context, userId uuid.UUID, req *dto.AppendChunkRequest) (*dto.AppendChunkResponse, error) {
	session, err := cs.loadSession(ctx, userId, req.ConversationId)
	if err != nil {
		return nil, err
	}

	// A user message opens a fresh turn; it cannot arrive mid-turn.
	if req.UserText != "" {
		if session.ExchangeID != "" {
			return nil, fiber.NewError(fiber.StatusConflict, "a turn is already in flight; complete it before sending new user_text")
		}
		session.ExchangeID = uuid.New().String()
		session.UserText = req.UserText
		session.Buffer = ""
	}
	if session.ExchangeID == "" {
		return nil, fiber.NewError(fiber.StatusConflict, "no turn in flight; send user_text with the first chunk")
	}

	session.Buffer += req.Chunk

	segments := stream.Normalize(stream.Decode(session.Buffer))
	session.Drawer.SetStreaming(collectCalls(segments))
	cs.sessionRepo.Save(session)

	exchangeId, _ := uuid.Parse(session.ExchangeID)

	// Queue the push; the consumer fans it out to connected clients.
	msgPayload := dto.PublishStreamUpdateMessage{
		ConversationId: req.ConversationId,
		UserId:         userId,
		ExchangeId:     exchangeId,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := cs.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.AppendChunkResponse{
		ConversationId: req.ConversationId,
		ExchangeId:     exchangeId,
		Segments:       cs.mapper.ToSegmentDTOs(segments),
		Drawer:         cs.mapper.ToDrawerDTO(session.Drawer, false),
	}, nil
}

// CompleteTurn runs the commit pipeline: final decode, drawer commit with
// session-wide dedup, durable persistence of the exchange and its
// surviving tool calls, then the reopen check and the drawer push.
func (cs *conversationService) CompleteTurn(ctx context.Context, userId uuid.UUID, req *dto.CompleteTurnRequest) (*dto.CompleteTurnResponse, error) {
	session, err := cs.loadSession(ctx, userId, req.ConversationId)
	if err != nil {
		return nil, err
	}
	if session.ExchangeID == "" {
		return nil, fiber.NewError(fiber.StatusConflict, "no turn in flight")
	}

	segments := stream.Normalize(stream.Decode(session.Buffer))
	group := session.Drawer.CommitTurn(session.ExchangeID, session.UserText, collectCalls(segments))

	exchangeId, _ := uuid.Parse(session.ExchangeID)
	exchange := entity.Exchange{
		Id:             exchangeId,
		ConversationId: req.ConversationId,
		UserText:       session.UserText,
		ResponseText:   textOf(segments),
		CreatedAt:      time.Now(),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.ExchangeRepository().Create(ctx, &exchange); err != nil {
		uow.Rollback()
		return nil, err
	}
	if group != nil {
		toolCalls := make([]*entity.ExchangeToolCall, 0, len(group.ToolCalls))
		for i, c := range group.ToolCalls {
			payload, err := json.Marshal(c.Result)
			if err != nil {
				uow.Rollback()
				return nil, err
			}
			toolCalls = append(toolCalls, &entity.ExchangeToolCall{
				Id:         uuid.New(),
				ExchangeId: exchangeId,
				ToolName:   c.ToolName,
				Kind:       string(c.Result.Kind),
				Payload:    datatypes.JSON(payload),
				Position:   i,
				CreatedAt:  time.Now(),
			})
		}
		if err := uow.ExchangeRepository().CreateToolCalls(ctx, toolCalls); err != nil {
			uow.Rollback()
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	userText := session.UserText
	session.ResetTurn()
	cs.sessionRepo.Save(session)

	committed := 0
	if group != nil {
		committed = len(group.ToolCalls)
	}

	cs.publishEvent(ctx, constant.EventTurnCommitted, map[string]interface{}{
		"conversation_id": req.ConversationId,
		"exchange_id":     exchangeId,
		"user_id":         userId,
		"user_text":       userText,
		"committed":       committed,
	})

	drawerDTO := cs.mapper.ToDrawerDTO(session.Drawer, session.Drawer.ShouldReopen())
	if cs.delivery != nil {
		cs.delivery.Send(userId, model.TutorUpdate{
			Type:           model.UpdateTypeDrawer,
			ConversationId: req.ConversationId,
			ExchangeId:     &exchangeId,
			Data:           drawerDTO,
		})
	}

	return &dto.CompleteTurnResponse{
		ConversationId: req.ConversationId,
		ExchangeId:     exchangeId,
		Committed:      committed,
		Drawer:         drawerDTO,
	}, nil
}

func (cs *conversationService) GetDrawer(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.DrawerDTO, error) {
	session, err := cs.loadSession(ctx, userId, conversationId)
	if err != nil {
		return nil, err
	}
	return cs.mapper.ToDrawerDTO(session.Drawer, false), nil
}

// ClearHistory wipes the persisted exchanges and the drawer in lockstep.
// One without the other would let a fresh identical turn either duplicate
// drawer items or be deduplicated against history the user no longer sees.
func (cs *conversationService) ClearHistory(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) error {
	session, err := cs.loadSession(ctx, userId, conversationId)
	if err != nil {
		return err
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ExchangeRepository().DeleteByConversationId(ctx, conversationId); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	session.Drawer.Clear()
	session.ResetTurn()
	cs.sessionRepo.Save(session)

	cs.publishEvent(ctx, constant.EventHistoryCleared, map[string]interface{}{
		"conversation_id": conversationId,
		"user_id":         userId,
	})

	if cs.delivery != nil {
		cs.delivery.Send(userId, model.TutorUpdate{
			Type:           model.UpdateTypeCleared,
			ConversationId: conversationId,
		})
	}
	return nil
}

func (cs *conversationService) DeleteConversation(ctx context.Context, userId uuid.UUID, req *dto.DeleteConversationRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := cs.findOwned(ctx, uow, userId, req.ConversationId)
	if err != nil {
		return err
	}

	now := time.Now()
	conversation.IsDeleted = true
	conversation.DeletedAt = &now
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return err
	}

	cs.sessionRepo.Delete(req.ConversationId.String())
	return nil
}

// loadSession returns the live session, rebuilding it from the durable
// store after an eviction or restart. The rebuilt drawer replays the full
// committed history so dedup fingerprints survive the round trip.
func (cs *conversationService) loadSession(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*store.Session, error) {
	if session, found := cs.sessionRepo.Get(conversationId.String()); found {
		if session.UserID != userId.String() {
			return nil, fiber.NewError(fiber.StatusForbidden, "conversation belongs to another user")
		}
		return session, nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	conversation, err := cs.findOwned(ctx, uow, userId, conversationId)
	if err != nil {
		return nil, err
	}

	session := store.NewSession(conversation.Id.String(), userId.String(), conversation.VideoId)

	exchanges, err := uow.ExchangeRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(exchanges))
	for _, e := range exchanges {
		ids = append(ids, e.Id)
	}
	toolCalls, err := uow.ExchangeRepository().FindToolCallsByExchangeIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byExchange := make(map[uuid.UUID][]toolcall.Call)
	for _, tc := range toolCalls {
		var result toolcall.Result
		if err := json.Unmarshal(tc.Payload, &result); err != nil {
			cs.logger.Warn("ConversationService", "Skipping undecodable stored tool call", map[string]interface{}{
				"exchange_id": tc.ExchangeId, "error": err.Error(),
			})
			continue
		}
		byExchange[tc.ExchangeId] = append(byExchange[tc.ExchangeId], toolcall.Call{
			ToolName: tc.ToolName,
			Result:   result,
		})
	}

	groups := make([]drawer.ExchangeGroup, 0, len(exchanges))
	for _, e := range exchanges {
		calls := byExchange[e.Id]
		if len(calls) == 0 {
			continue
		}
		groups = append(groups, drawer.ExchangeGroup{
			ExchangeID: e.Id.String(),
			UserText:   e.UserText,
			ToolCalls:  calls,
		})
	}
	session.Drawer.Restore(groups)

	cs.sessionRepo.Save(session)
	return session, nil
}

func (cs *conversationService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, conversationId uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.UserOwnedBy{UserID: userId},
		specification.NotDeleted{},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "conversation not found")
	}
	return conversation, nil
}

func (cs *conversationService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if cs.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	// Events are auxiliary; the request never fails on a bus hiccup.
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

// collectCalls pulls the tool calls out of a decoded segment list in
// conversation order.
func collectCalls(segments []stream.Segment) []toolcall.Call {
	calls := make([]toolcall.Call, 0)
	for _, seg := range segments {
		if seg.Type == stream.SegmentTool && seg.Tool != nil {
			calls = append(calls, *seg.Tool)
		}
	}
	return calls
}

// textOf concatenates the prose segments, which is what gets persisted as
// the exchange's response text.
func textOf(segments []stream.Segment) string {
	out := ""
	for _, seg := range segments {
		if seg.Type == stream.SegmentText {
			out += seg.Text
		}
	}
	return out
}
