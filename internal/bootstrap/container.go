package bootstrap

import (
	"context"
	"log"

	"ai-videotutor-be/internal/config"
	"ai-videotutor-be/internal/controller"
	"ai-videotutor-be/internal/handler"
	"ai-videotutor-be/internal/pkg/logger"
	"ai-videotutor-be/internal/repository/memory"
	"ai-videotutor-be/internal/repository/unitofwork"
	"ai-videotutor-be/internal/service"
	"ai-videotutor-be/internal/websocket"

	pktNats "ai-videotutor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	TutorController controller.ITutorController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Topics.StreamUpdate, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Topics.StreamUpdate,
		sessionRepo,
		wsHub, // Hub implements UpdateDelivery
	)

	conversationService := service.NewConversationService(
		uowFactory,
		sessionRepo,
		publisherService,
		natsPub,
		wsHub,
		sysLogger,
	)

	activityService := service.NewActivityService(uowFactory, natsSub, sysLogger)

	// Start Service (Worker)
	if natsSub != nil {
		go activityService.Start()
	}

	// Handler
	streamHandler := handler.NewStreamHandler(wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		TutorController: controller.NewTutorController(conversationService),

		ConsumerService: consumerService,

		StreamHandler: streamHandler,
		WebSocketHub:  wsHub,
	}
}
